package ports

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrStorage  = errors.New("storage failure")
)

// StorageError tags err as a persistence failure unless it already is one.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
