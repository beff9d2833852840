package catalog

import (
	"waypoint/internal/domain/region"

	"github.com/google/uuid"
)

type CreateRequest struct {
	Name      string
	WorldID   uuid.UUID
	X1, Z1    int
	X2, Z2    int
	TeleportX float64
	TeleportY float64
	TeleportZ float64
	CreatorID uuid.UUID
}

type CreateResponse struct {
	Region region.Region `json:"region"`
}

type RenameRequest struct {
	From string
	To   string
}

type RenameResponse struct {
	Region region.Region `json:"region"`
}

type DeleteRequest struct {
	ID uuid.UUID
}

type ReloadResponse struct {
	Count int `json:"count"`
}

// ListRequest with a nil PlayerID comes from the console and lists the
// whole catalog.
type ListRequest struct {
	PlayerID uuid.UUID
}

type ListResponse struct {
	Regions []region.Region `json:"regions"`
}
