package travel

import "github.com/google/uuid"

type Request struct {
	PlayerID    uuid.UUID
	Destination string
}

type Response struct {
	RegionID uuid.UUID `json:"region_id"`
	Name     string    `json:"name"`
	WorldID  uuid.UUID `json:"world_id"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Z        float64   `json:"z"`
}
