package region

import (
	"slices"

	"github.com/google/uuid"
)

// Set is an ordered collection of regions with identity by ID. Add never
// writes into a slice that was handed out by Slice, so snapshots stay valid.
type Set struct {
	items []Region
}

func NewSet(regions ...Region) Set {
	s := Set{}
	for _, r := range regions {
		s.Add(r)
	}
	return s
}

// Add inserts r in order. An existing member with the same id is replaced.
func (s *Set) Add(r Region) {
	next := make([]Region, 0, len(s.items)+1)
	for _, cur := range s.items {
		if cur.ID != r.ID {
			next = append(next, cur)
		}
	}
	i, _ := slices.BinarySearchFunc(next, r, Compare)
	next = slices.Insert(next, i, r)
	s.items = next
}

func (s Set) Contains(id uuid.UUID) bool {
	for _, r := range s.items {
		if r.ID == id {
			return true
		}
	}
	return false
}

// FindByName returns the first member, in set order, whose name equals name
// exactly.
func (s Set) FindByName(name string) (Region, bool) {
	for _, r := range s.items {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

func (s Set) Slice() []Region {
	out := make([]Region, len(s.items))
	copy(out, s.items)
	return out
}

func (s Set) Len() int {
	return len(s.items)
}
