package controller

import (
	"errors"

	"github.com/google/uuid"
)

var ErrValidationError = errors.New("validation error")

// generateTimeBasedId returns a UUIDv7, so ids sort by creation time.
func (c controller) generateTimeBasedId() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
