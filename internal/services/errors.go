package services

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrItemNotFound  = errors.New("item not found")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func orderNotFound(id uint64) error {
	return fmt.Errorf("%w: %d", ErrOrderNotFound, id)
}

func itemNotFound(id uint64) error {
	return fmt.Errorf("%w: %d", ErrItemNotFound, id)
}
