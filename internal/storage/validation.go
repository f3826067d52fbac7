// Package storage provides the SQLite persistence layer for geocoded places and classification history.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/four-pillars/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidPlace  = errors.New("invalid place")
	ErrInvalidResult = errors.New("invalid classification result")
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

// validateLocation validates a location before it is cached.
func validateLocation(loc *model.Location) error {
	if loc == nil {
		return fmt.Errorf("%w: location", ErrNilParameter)
	}
	if math.IsNaN(loc.Latitude) || loc.Latitude < -90 || loc.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidPlace, loc.Latitude)
	}
	if math.IsNaN(loc.Longitude) || loc.Longitude < -180 || loc.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidPlace, loc.Longitude)
	}
	if strings.TrimSpace(loc.Source) == "" {
		return fmt.Errorf("%w: missing source", ErrInvalidPlace)
	}
	return nil
}

// validateResult validates a classification result before it is recorded.
func validateResult(result *model.ClassificationResult) error {
	if result == nil {
		return fmt.Errorf("%w: result", ErrNilParameter)
	}
	if strings.TrimSpace(result.CaseID) == "" {
		return fmt.Errorf("%w: missing case id", ErrInvalidResult)
	}
	if !result.Constitution.Type.Valid() {
		return fmt.Errorf("%w: unknown constitution", ErrInvalidResult)
	}
	if result.Confidence.Total < 0 || result.Confidence.Total > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidResult)
	}
	return nil
}
