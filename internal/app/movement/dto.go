package movement

import (
	"waypoint/internal/domain/region"
	"waypoint/internal/domain/world"

	"github.com/google/uuid"
)

type Request struct {
	PlayerID uuid.UUID
	From     world.Position
	To       world.Position
}

type Response struct {
	CrossedCell bool            `json:"crossed_cell"`
	Discovered  []region.Region `json:"discovered"`
}
