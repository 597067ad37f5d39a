package sync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/refkit/tablesync/tableapi"
)

// Engine reconciles declarative row specifications against one table of a
// lock-versioned data-table service. An Engine owns no shared mutable state;
// use one Engine per concurrently synced table.
type Engine struct {
	backend   tableapi.Backend
	batchSize int
	log       zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards all output.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithBatchSize overrides the per-call batch size. Values above the remote
// contract's ceiling are capped at tableapi.MaxBatchValues.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 && n <= tableapi.MaxBatchValues {
			e.batchSize = n
		}
	}
}

// New creates an Engine backed by the given service.
func New(backend tableapi.Backend, opts ...Option) *Engine {
	e := &Engine{
		backend:   backend,
		batchSize: tableapi.MaxBatchValues,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report summarizes one sync run for one table. Total always equals
// Updated + Created + Failed; Failed includes values that could not be
// formatted as well as remote per-item and call-level failures.
type Report struct {
	Updated int
	Created int
	Failed  int
	Total   int
}

// Sync runs the full update-then-create reconciliation for one table.
//
// The only fatal condition is the initial lock-version fetch failing: with no
// current lock versions there is no safe way to mutate, so Sync returns an
// error wrapping tableapi.ErrLockVersionsUnavailable and no report. Every
// other failure is captured in the returned Report.
func (e *Engine) Sync(ctx context.Context, tableID string, rows []tableapi.RowSpec, attrs []tableapi.AttributeDefinition) (*Report, error) {
	types := make(map[string]tableapi.ValueType, len(attrs))
	for _, def := range attrs {
		types[def.Name] = def.ValueType
	}

	locks, err := e.backend.ListAttributeLockVersions(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tableapi.ErrLockVersionsUnavailable, err)
	}

	values, formatFailures := Format(rows, types, locks)
	for _, f := range formatFailures {
		e.log.Warn().
			Str("attribute", f.AttributeName).
			Str("raw", f.RawValue).
			Err(f.Err).
			Msg("value skipped: cannot format")
	}
	e.log.Info().
		Str("table", tableID).
		Int("values", len(values)).
		Msg("formatted attribute values")

	report := &Report{Failed: len(formatFailures)}

	e.log.Info().
		Str("table", tableID).
		Int("values", len(values)).
		Msg("phase 1: updating values")
	toCreate := e.runUpdates(ctx, tableID, values, report)

	if len(toCreate) > 0 {
		e.log.Info().
			Str("table", tableID).
			Int("values", len(toCreate)).
			Msg("phase 2: creating missing values")
		e.runCreates(ctx, tableID, toCreate, report)
	}

	report.Total = report.Updated + report.Created + report.Failed
	e.log.Info().
		Str("table", tableID).
		Int("updated", report.Updated).
		Int("created", report.Created).
		Int("failed", report.Failed).
		Int("total", report.Total).
		Msg("value sync summary")

	return report, nil
}

// runUpdates submits all formatted values for update in batches and returns
// the items whose cells do not exist yet.
func (e *Engine) runUpdates(ctx context.Context, tableID string, values []tableapi.Value, report *Report) []tableapi.Value {
	var toCreate []tableapi.Value

	for start := 0; start < len(values); start += e.batchSize {
		end := min(start+e.batchSize, len(values))

		// Lock versions observed before the previous batch's mutations
		// are stale; refresh every batch after the first.
		if start > 0 {
			e.refreshLockVersions(ctx, tableID, values[start:end])
		}

		batch := values[start:end]
		result, err := e.backend.BatchUpdateValues(ctx, tableID, batch)
		if err != nil {
			e.log.Error().Err(err).
				Str("table", tableID).
				Int("size", len(batch)).
				Msg("batch update call failed")
			report.Failed += len(batch)
			continue
		}

		report.Updated += len(result.Successful)

		var toRetry []tableapi.Value
		for _, failed := range result.Failed {
			switch tableapi.ClassifyFailure(failed.Message) {
			case tableapi.FailureMissing:
				toCreate = append(toCreate, failed.Value)
			case tableapi.FailureConflict:
				toRetry = append(toRetry, failed.Value)
			default:
				report.Failed++
				e.log.Warn().
					Str("table", tableID).
					Str("attribute", failed.Value.AttributeName).
					Str("message", failed.Message).
					Msg("update failed (not retryable)")
			}
		}

		if len(toRetry) > 0 {
			e.retryConflicts(ctx, tableID, toRetry, report)
		}
	}

	return toCreate
}

// retryConflicts resubmits conflicted items exactly once with freshly fetched
// lock versions. Outcomes of this single retry are final: whatever the second
// round reports, failed items are counted as failed and never resubmitted or
// routed to the create phase.
func (e *Engine) retryConflicts(ctx context.Context, tableID string, retry []tableapi.Value, report *Report) {
	e.log.Info().
		Str("table", tableID).
		Int("values", len(retry)).
		Msg("retrying concurrency conflicts")

	locks, err := e.backend.ListAttributeLockVersions(ctx, tableID)
	if err != nil {
		report.Failed += len(retry)
		return
	}
	for i := range retry {
		retry[i].LockVersion = locks[retry[i].AttributeName]
	}

	result, err := e.backend.BatchUpdateValues(ctx, tableID, retry)
	if err != nil {
		e.log.Error().Err(err).Str("table", tableID).Msg("conflict retry call failed")
		report.Failed += len(retry)
		return
	}

	report.Updated += len(result.Successful)
	report.Failed += len(result.Failed)
}

// runCreates submits missing values for creation in batches. Lock versions
// are refreshed before every batch including the first, because the tokens on
// these items were fetched before the update phase mutated the table.
func (e *Engine) runCreates(ctx context.Context, tableID string, values []tableapi.Value, report *Report) {
	for start := 0; start < len(values); start += e.batchSize {
		end := min(start+e.batchSize, len(values))
		e.refreshLockVersions(ctx, tableID, values[start:end])

		batch := values[start:end]
		result, err := e.backend.BatchCreateValues(ctx, tableID, batch)
		if err != nil {
			e.log.Error().Err(err).
				Str("table", tableID).
				Int("size", len(batch)).
				Msg("batch create call failed")
			report.Failed += len(batch)
			continue
		}

		report.Created += len(result.Successful)
		for _, failed := range result.Failed {
			// A cell that already exists means a prior run created it;
			// re-running a completed sync must stay a no-op.
			if tableapi.ClassifyFailure(failed.Message) == tableapi.FailureExists {
				report.Created++
				continue
			}
			report.Failed++
			e.log.Warn().
				Str("table", tableID).
				Str("attribute", failed.Value.AttributeName).
				Str("message", failed.Message).
				Msg("create failed")
		}
	}
}

// refreshLockVersions stamps the given items with freshly fetched lock
// versions. On fetch failure the items keep their previous tokens; the
// following batch call reports any staleness per item.
func (e *Engine) refreshLockVersions(ctx context.Context, tableID string, values []tableapi.Value) {
	locks, err := e.backend.ListAttributeLockVersions(ctx, tableID)
	if err != nil {
		e.log.Warn().Err(err).Str("table", tableID).Msg("lock version refresh failed")
		return
	}
	for i := range values {
		values[i].LockVersion = locks[values[i].AttributeName]
	}
}
