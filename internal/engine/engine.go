// Package engine runs the end-to-end constitution classification for a birth record.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Veraticus/four-pillars/internal/classification"
	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/Veraticus/four-pillars/internal/pillars"
	"github.com/Veraticus/four-pillars/internal/service"
	"github.com/Veraticus/four-pillars/internal/solartime"
)

// caseNamespace scopes deterministic case ids.
var caseNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Veraticus/four-pillars/case"))

// ClassificationEngine orchestrates geocoding, time resolution, and classification.
type ClassificationEngine struct {
	geocoder service.Geocoder
	resolver TimeResolver
	history  service.ResultStore
}

// Option configures a ClassificationEngine.
type Option func(*ClassificationEngine)

// WithResolver replaces the default IANA-backed time resolver.
func WithResolver(r TimeResolver) Option {
	return func(e *ClassificationEngine) { e.resolver = r }
}

// WithHistory records every successful classification in store.
func WithHistory(store service.ResultStore) Option {
	return func(e *ClassificationEngine) { e.history = store }
}

// New creates a new classification engine. geocoder may be nil when every
// record carries a pre-resolved location.
func New(geocoder service.Geocoder, opts ...Option) *ClassificationEngine {
	e := &ClassificationEngine{
		geocoder: geocoder,
		resolver: solartime.NewResolver(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Classify resolves the record's place and time, derives the chart and classifies it.
func (e *ClassificationEngine) Classify(ctx context.Context, rec model.BirthRecord) (*model.ClassificationResult, error) {
	loc, err := e.locate(ctx, rec)
	if err != nil {
		return nil, err
	}

	resolved, err := e.resolver.Resolve(rec.Date, rec.Time, *loc, rec.DST)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve birth time: %w", err)
	}

	chart, err := pillars.Calculate(resolved.Year, resolved.Month, resolved.Day, resolved.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate pillars: %w", err)
	}

	result, err := ClassifyChart(chart)
	if err != nil {
		return nil, err
	}

	result.Name = rec.Name
	result.Location = loc
	result.Time = &resolved
	if resolved.TimezoneFallback {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s for %q; solar time computed against UTC", common.ErrTimezoneResolutionFailed, loc.Name))
	}

	common.LogInfo("Classified birth record", common.Fields{
		"case_id":      result.CaseID,
		"chart":        chart.Key(),
		"constitution": result.Constitution.Type.String(),
		"confidence":   result.Confidence.Total,
	})

	if e.history != nil {
		if err := e.history.SaveResult(ctx, rec, result); err != nil {
			common.LogError(err, "Failed to record classification history", common.Fields{
				"case_id": result.CaseID,
			})
		}
	}

	return result, nil
}

// ClassifyChart runs the pure classification pipeline on the given pillars.
func (e *ClassificationEngine) ClassifyChart(chart model.Chart) (*model.ClassificationResult, error) {
	return ClassifyChart(chart)
}

func (e *ClassificationEngine) locate(ctx context.Context, rec model.BirthRecord) (*model.Location, error) {
	if rec.Location != nil {
		loc := *rec.Location
		if loc.Source == "" {
			loc.Source = model.SourceManual
		}
		return &loc, nil
	}
	if strings.TrimSpace(rec.Place) == "" {
		return nil, common.NewUserError("a place of birth is required", common.ErrLocationNotFound)
	}
	if e.geocoder == nil {
		return nil, fmt.Errorf("%w: no geocoder configured", common.ErrGeocoderUnavailable)
	}

	loc, err := e.geocoder.Lookup(ctx, rec.Place)
	if err != nil {
		if errors.Is(err, common.ErrLocationNotFound) || errors.Is(err, common.ErrOfflineLookup) {
			return nil, common.NewUserError(fmt.Sprintf("could not find %q; try a clearer place name", rec.Place), err)
		}
		return nil, fmt.Errorf("failed to geocode %q: %w", rec.Place, err)
	}
	return loc, nil
}

// ClassifyChart runs the pure classification pipeline: matrix, gate, flow selection,
// tie-break, confidence and audit. It performs no I/O.
func ClassifyChart(chart model.Chart) (*model.ClassificationResult, error) {
	matrix, err := classification.BuildMatrix(chart)
	if err != nil {
		return nil, fmt.Errorf("failed to build element matrix: %w", err)
	}

	gate := classification.ResolveGate(chart.DayMaster().Polarity())
	decision := classification.SelectByFlow(gate, matrix, chart)
	winner := decision.WinnerEvidence()

	result := &model.ClassificationResult{
		CaseID:       CaseID(chart),
		Chart:        chart,
		Matrix:       matrix,
		Polarity:     classification.SummarizePolarity(matrix.Polarity),
		Constitution: decision.Winner.Summarize(),
		Stations:     winner.Reports,
		Candidates:   make([]model.CandidateScore, 0, len(decision.Evidence)),
		Confidence: classification.ScoreConfidence(classification.ConfidenceInputs{
			Matrix:       matrix,
			Contribution: winner.Contribution,
			DayMaster:    chart.DayMaster(),
			Winner:       decision.Winner,
			Gate:         gate,
		}),
		Audit: classification.AuditResult(chart, matrix, winner),
	}
	for i, slot := range model.Slots {
		result.Pillars[i] = model.DescribePillar(slot, chart.Pillar(slot))
	}
	for _, ev := range decision.Evidence {
		result.Candidates = append(result.Candidates, ev.Score())
	}
	if decision.TieBreak != nil {
		result.TieBreak = decision.TieBreak.Summary()
	}

	return result, nil
}

// CaseID derives a stable identifier from the chart glyphs.
func CaseID(chart model.Chart) string {
	return uuid.NewSHA1(caseNamespace, []byte(chart.Key())).String()
}
