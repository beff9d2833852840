package ports

import "github.com/google/uuid"

// WorldRegistry reports which worlds are loaded in the running environment.
type WorldRegistry interface {
	Available(worldID uuid.UUID) bool
	Name(worldID uuid.UUID) (string, bool)
}
