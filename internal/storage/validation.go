// Package storage provides the data persistence layer for the thinktwice application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thinktwice-app/thinktwice/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidPrice   = errors.New("price cannot be negative")
	ErrInvalidRating  = errors.New("regret rating must be between 1 and 5")
	ErrInvalidImpulse = errors.New("invalid impulse")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateImpulse validates a single impulse before it is written.
func validateImpulse(impulse *model.Impulse) error {
	if impulse == nil {
		return fmt.Errorf("%w: impulse", ErrNilParameter)
	}
	if strings.TrimSpace(impulse.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidImpulse)
	}
	if strings.TrimSpace(impulse.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidImpulse)
	}
	if !model.ValidCategory(impulse.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidImpulse, impulse.Category)
	}
	if impulse.Price != nil && *impulse.Price < 0 {
		return fmt.Errorf("%w: %.2f", ErrInvalidPrice, *impulse.Price)
	}
	if impulse.RegretRating != nil && (*impulse.RegretRating < 1 || *impulse.RegretRating > 5) {
		return fmt.Errorf("%w: %d", ErrInvalidRating, *impulse.RegretRating)
	}
	return nil
}

// validateRating validates an optional regret rating.
func validateRating(rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return fmt.Errorf("%w: %d", ErrInvalidRating, *rating)
	}
	return nil
}
