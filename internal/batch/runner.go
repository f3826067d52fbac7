package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
)

// Classifier classifies a single birth record.
type Classifier interface {
	Classify(ctx context.Context, rec model.BirthRecord) (*model.ClassificationResult, error)
}

// Outcome is the result of one row. Exactly one of Result and Err is set.
type Outcome struct {
	Result *model.ClassificationResult
	Err    error
	Row    Row
}

// Runner classifies rows with a bounded worker pool.
type Runner struct {
	classifier Classifier
	onProgress func()
	workers    int
}

// NewRunner creates a runner with the given concurrency. onProgress, if set, is
// called once per finished row from worker goroutines.
func NewRunner(classifier Classifier, workers int, onProgress func()) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{classifier: classifier, workers: workers, onProgress: onProgress}
}

// Run classifies every row. Per-row failures are recorded in the outcome;
// only context cancellation aborts the batch. Outcomes keep input order.
func (r *Runner) Run(ctx context.Context, rows []Row) ([]Outcome, error) {
	outcomes := make([]Outcome, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	var progressMu sync.Mutex
	for i, row := range rows {
		if gctx.Err() != nil {
			break
		}
		i, row := i, row
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := r.classifier.Classify(gctx, row.Record)
			outcomes[i] = Outcome{Row: row, Result: result, Err: err}
			if err != nil {
				common.LogDebug("Batch row failed", common.Fields{"line": row.Line, "error": err.Error()})
			}
			if r.onProgress != nil {
				progressMu.Lock()
				r.onProgress()
				progressMu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, fmt.Errorf("batch interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return outcomes, fmt.Errorf("batch interrupted: %w", err)
	}
	return outcomes, nil
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Summarize counts successes and failures, skipping rows never attempted.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch {
		case o.Result != nil:
			s.Succeeded++
		case o.Err != nil:
			s.Failed++
		default:
			continue
		}
		s.Total++
	}
	return s
}

type line struct {
	Result *model.ClassificationResult `json:"result,omitempty"`
	Name   string                      `json:"name,omitempty"`
	Error  string                      `json:"error,omitempty"`
	Line   int                         `json:"line"`
}

// WriteJSONL writes one JSON object per attempted row.
func WriteJSONL(w io.Writer, outcomes []Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, o := range outcomes {
		if o.Result == nil && o.Err == nil {
			continue
		}
		l := line{Line: o.Row.Line, Name: o.Row.Record.Name, Result: o.Result}
		if o.Err != nil {
			l.Error = o.Err.Error()
		}
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("failed to write line %d: %w", o.Row.Line, err)
		}
	}
	return nil
}
