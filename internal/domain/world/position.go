package world

import (
	"math"

	"github.com/google/uuid"
)

type Position struct {
	WorldID uuid.UUID `json:"world_id"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Z       float64   `json:"z"`
}

// Cell is the integer grid cell on the horizontal plane.
type Cell struct {
	X int `json:"x"`
	Z int `json:"z"`
}

func (p Position) Cell() Cell {
	return Cell{X: int(math.Floor(p.X)), Z: int(math.Floor(p.Z))}
}

// CrossesCell reports whether moving from one position to another changes
// the floor cell on at least one horizontal axis.
func CrossesCell(from, to Position) bool {
	return from.Cell() != to.Cell()
}
