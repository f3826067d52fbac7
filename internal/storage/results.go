package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/Veraticus/four-pillars/internal/service"
)

// recordNamespace scopes history row ids.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Veraticus/four-pillars/record"))

// RecordID identifies one classified birth. Births sharing a chart get distinct ids;
// classifying the same birth again yields the same id.
func RecordID(record model.BirthRecord, caseID string) string {
	parts := []string{caseID, record.Name, record.Date, record.Time, strings.ToLower(strings.TrimSpace(record.Place))}
	if record.Location != nil {
		parts = append(parts,
			strconv.FormatFloat(record.Location.Latitude, 'f', -1, 64),
			strconv.FormatFloat(record.Location.Longitude, 'f', -1, 64),
			record.Location.Timezone)
	}
	if record.DST != nil {
		parts = append(parts, strconv.FormatBool(*record.DST))
	}
	return uuid.NewSHA1(recordNamespace, []byte(strings.Join(parts, "\x1f"))).String()
}

// SaveResult records a classification under its RecordID. Re-classifying the same
// birth replaces its row; another birth with the same chart gets its own row.
func (s *SQLiteStorage) SaveResult(ctx context.Context, record model.BirthRecord, result *model.ClassificationResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateResult(result); err != nil {
		return err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveResultTx(ctx, tx, record, result, payload); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStorage) saveResultTx(ctx context.Context, q queryable, record model.BirthRecord, result *model.ClassificationResult, payload []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO results (id, case_id, name, birth_date, birth_time, place, chart, constitution, confidence, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			birth_date = excluded.birth_date,
			birth_time = excluded.birth_time,
			place = excluded.place,
			constitution = excluded.constitution,
			confidence = excluded.confidence,
			payload = excluded.payload,
			created_at = excluded.created_at
	`,
		RecordID(record, result.CaseID),
		result.CaseID,
		record.Name,
		record.Date,
		record.Time,
		record.Place,
		result.Chart.Key(),
		result.Constitution.Type.String(),
		result.Confidence.Total,
		string(payload),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// GetResult returns the stored result with the given record id. A case id matches
// the most recent birth classified with that chart. Misses return common.ErrNotFound.
func (s *SQLiteStorage) GetResult(ctx context.Context, id string) (*service.StoredResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, case_id, name, chart, constitution, confidence, payload, created_at
		FROM results
		WHERE id = ?1 OR case_id = ?1
		ORDER BY id = ?1 DESC, created_at DESC
		LIMIT 1
	`, id)

	r, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: result %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListResults returns the most recent results, newest first. limit <= 0 returns all.
func (s *SQLiteStorage) ListResults(ctx context.Context, limit int) ([]service.StoredResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, case_id, name, chart, constitution, confidence, payload, created_at
		FROM results
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []service.StoredResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*service.StoredResult, error) {
	var (
		r       service.StoredResult
		name    sql.NullString
		payload string
	)
	err := row.Scan(&r.ID, &r.CaseID, &name, &r.ChartKey, &r.Constitution, &r.Confidence, &payload, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan result: %w", err)
	}
	r.Name = name.String
	r.Payload = []byte(payload)
	return &r, nil
}
