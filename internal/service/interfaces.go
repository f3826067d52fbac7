// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/four-pillars/internal/model"
)

// Geocoder resolves a free-text place name to coordinates and a timezone.
type Geocoder interface {
	Lookup(ctx context.Context, place string) (*model.Location, error)
}

// PlaceCache memoizes geocoding results by normalized place name.
// Entries never expire; a repeated Set for the same key overwrites the old value.
type PlaceCache interface {
	Get(ctx context.Context, key string) (*model.Location, bool, error)
	Set(ctx context.Context, key string, loc *model.Location) error
	Has(ctx context.Context, key string) (bool, error)
}

// ZoneFinder maps coordinates to an IANA timezone id.
type ZoneFinder interface {
	ZoneFor(lat, lon float64) (string, bool)
}

// ResultStore keeps a history of classification results.
type ResultStore interface {
	SaveResult(ctx context.Context, record model.BirthRecord, result *model.ClassificationResult) error
	GetResult(ctx context.Context, id string) (*StoredResult, error)
	ListResults(ctx context.Context, limit int) ([]StoredResult, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	PlaceCache
	ResultStore

	// Place management
	ListPlaces(ctx context.Context) ([]CachedPlace, error)
	ClearPlaces(ctx context.Context) (int64, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// CachedPlace is one persisted geocoding entry.
type CachedPlace struct {
	CreatedAt time.Time
	Location  model.Location
	Key       string
}

// StoredResult is one persisted classification. ID identifies the classified
// birth and CaseID identifies its chart.
type StoredResult struct {
	CreatedAt    time.Time
	ID           string
	CaseID       string
	Name         string
	ChartKey     string
	Constitution string
	Payload      []byte
	Confidence   float64
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
