package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/Veraticus/four-pillars/internal/service"
)

// Get returns the cached location for a normalized place key.
func (s *SQLiteStorage) Get(ctx context.Context, key string) (*model.Location, bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, false, err
	}

	if loc, ok := s.getCachedPlace(key); ok {
		return &loc, true, nil
	}

	loc, err := s.getPlaceTx(ctx, s.db, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.cachePlace(key, *loc)
	return loc, true, nil
}

func (s *SQLiteStorage) getPlaceTx(ctx context.Context, q queryable, key string) (*model.Location, error) {
	var (
		loc         model.Location
		displayName sql.NullString
		timezone    sql.NullString
	)
	err := q.QueryRowContext(ctx, `
		SELECT name, display_name, latitude, longitude, timezone, timezone_fallback, source
		FROM places
		WHERE key = ?
	`, key).Scan(
		&loc.Name,
		&displayName,
		&loc.Latitude,
		&loc.Longitude,
		&timezone,
		&loc.TimezoneFallback,
		&loc.Source,
	)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}

	loc.DisplayName = displayName.String
	loc.Timezone = timezone.String
	return &loc, nil
}

// Set stores a location under key. A later Set for the same key wins.
func (s *SQLiteStorage) Set(ctx context.Context, key string, loc *model.Location) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if err := validateLocation(loc); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO places (key, name, display_name, latitude, longitude, timezone, timezone_fallback, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			display_name = excluded.display_name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			timezone = excluded.timezone,
			timezone_fallback = excluded.timezone_fallback,
			source = excluded.source,
			created_at = excluded.created_at
	`, key, loc.Name, loc.DisplayName, loc.Latitude, loc.Longitude, loc.Timezone, loc.TimezoneFallback, loc.Source, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save place: %w", err)
	}

	s.cachePlace(key, *loc)
	return nil
}

// Has reports whether key is cached.
func (s *SQLiteStorage) Has(ctx context.Context, key string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(key, "key"); err != nil {
		return false, err
	}
	if _, ok := s.getCachedPlace(key); ok {
		return true, nil
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM places WHERE key = ?)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check place: %w", err)
	}
	return exists, nil
}

// ListPlaces returns every cached place ordered by key.
func (s *SQLiteStorage) ListPlaces(ctx context.Context) ([]service.CachedPlace, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, name, display_name, latitude, longitude, timezone, timezone_fallback, source, created_at
		FROM places
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var places []service.CachedPlace
	for rows.Next() {
		var (
			p           service.CachedPlace
			displayName sql.NullString
			timezone    sql.NullString
		)
		if err := rows.Scan(
			&p.Key,
			&p.Location.Name,
			&displayName,
			&p.Location.Latitude,
			&p.Location.Longitude,
			&timezone,
			&p.Location.TimezoneFallback,
			&p.Location.Source,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		p.Location.DisplayName = displayName.String
		p.Location.Timezone = timezone.String
		places = append(places, p)
	}
	return places, rows.Err()
}

// ClearPlaces deletes every cached place and returns how many were removed.
func (s *SQLiteStorage) ClearPlaces(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM places`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear places: %w", err)
	}

	s.cacheMutex.Lock()
	s.placeCache = make(map[string]model.Location)
	s.cacheMutex.Unlock()

	return res.RowsAffected()
}

func (s *SQLiteStorage) getCachedPlace(key string) (model.Location, bool) {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()
	loc, ok := s.placeCache[key]
	return loc, ok
}

func (s *SQLiteStorage) cachePlace(key string, loc model.Location) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	s.placeCache[key] = loc
}
