package region

import (
	"errors"
	"fmt"
	"math"

	"waypoint/internal/domain/world"

	"github.com/google/uuid"
)

var (
	ErrTeleportOutside = errors.New("teleport position is not inside the region")
	ErrBoundOutOfRange = errors.New("region bound out of range")
)

// Bounds are persisted as 32-bit integers.
const (
	MinBound = math.MinInt32
	MaxBound = math.MaxInt32
)

type Region struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	WorldID   uuid.UUID `json:"world_id"`
	XMin      int       `json:"x_min"`
	ZMin      int       `json:"z_min"`
	XMax      int       `json:"x_max"`
	ZMax      int       `json:"z_max"`
	TeleportX float64   `json:"teleport_x"`
	TeleportY float64   `json:"teleport_y"`
	TeleportZ float64   `json:"teleport_z"`
	CreatorID uuid.UUID `json:"creator_id"`
}

type Spec struct {
	Name      string
	WorldID   uuid.UUID
	X1, Z1    int
	X2, Z2    int
	TeleportX float64
	TeleportY float64
	TeleportZ float64
	CreatorID uuid.UUID
}

// New builds a region from user input. The box is normalized so that
// min <= max on both axes, and the teleport point must lie inside the
// normalized box (edges included).
func New(id uuid.UUID, s Spec) (Region, error) {
	for _, b := range [...]int{s.X1, s.Z1, s.X2, s.Z2} {
		if b < MinBound || b > MaxBound {
			return Region{}, fmt.Errorf("%w: %d", ErrBoundOutOfRange, b)
		}
	}
	xMin, xMax := ordered(s.X1, s.X2)
	zMin, zMax := ordered(s.Z1, s.Z2)
	r := Region{
		ID:        id,
		Name:      s.Name,
		WorldID:   s.WorldID,
		XMin:      xMin,
		ZMin:      zMin,
		XMax:      xMax,
		ZMax:      zMax,
		TeleportX: s.TeleportX,
		TeleportY: s.TeleportY,
		TeleportZ: s.TeleportZ,
		CreatorID: s.CreatorID,
	}
	if !r.Encloses(s.TeleportX, s.TeleportZ) {
		return Region{}, fmt.Errorf("%w: (%.2f, %.2f, %.2f)", ErrTeleportOutside, s.TeleportX, s.TeleportY, s.TeleportZ)
	}
	return r, nil
}

func ordered(a, b int) (int, int) {
	if b < a {
		return b, a
	}
	return a, b
}

// Encloses is the closed-box test used for teleport targets.
func (r Region) Encloses(x, z float64) bool {
	return x >= float64(r.XMin) && x <= float64(r.XMax) &&
		z >= float64(r.ZMin) && z <= float64(r.ZMax)
}

// Contains is the open-box test used for discovery: a cell lying on any
// edge of the region is outside, so regions sharing an edge never both
// trigger for the same cell.
func (r Region) Contains(c world.Cell) bool {
	return r.XMin < c.X && c.X < r.XMax &&
		r.ZMin < c.Z && c.Z < r.ZMax
}

// ContainsPosition applies Contains to the floor cell of p when p is in
// the region's world.
func (r Region) ContainsPosition(p world.Position) bool {
	return r.WorldID == p.WorldID && r.Contains(p.Cell())
}

func (r Region) Renamed(name string) Region {
	r.Name = name
	return r
}
