package insights

import (
	"context"
	"sync"
	"time"

	apperrors "moneta/internal/errors"
	"moneta/internal/logger"
)

// Worker dispatches overview computations to a background goroutine with
// last-request-wins semantics: a new request cancels any computation still
// in flight, and the superseded caller gets ErrSuperseded instead of a stale
// result.
type Worker struct {
	engine *Engine

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewWorker creates a Worker over the given engine.
func NewWorker(engine *Engine) *Worker {
	return &Worker{engine: engine}
}

// Overview computes the full analytics overview off the caller's goroutine.
// It blocks until the result is ready, the caller's ctx is cancelled, or a
// newer request supersedes this one.
func (w *Worker) Overview(ctx context.Context, now time.Time, period Period) (*Overview, error) {
	if !period.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "unsupported insight period")
	}

	runCtx := w.begin(ctx)

	type result struct {
		overview *Overview
		err      error
	}
	done := make(chan result, 1)
	go func() {
		overview, err := w.engine.ComputeOverview(runCtx, now, period)
		done <- result{overview, err}
	}()

	select {
	case res := <-done:
		if res.err != nil && runCtx.Err() != nil {
			return nil, w.cancellationError(ctx)
		}
		return res.overview, res.err
	case <-runCtx.Done():
		logger.Get().Debugw("overview computation abandoned", "period_months", period.MonthCount())
		return nil, w.cancellationError(ctx)
	}
}

// begin cancels any in-flight computation and registers a context for the
// new one.
func (w *Worker) begin(parent context.Context) context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	w.cancel = cancel
	return ctx
}

// cancellationError distinguishes a caller-side cancellation from being
// superseded by a newer request.
func (w *Worker) cancellationError(callerCtx context.Context) error {
	if err := callerCtx.Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return apperrors.ErrSuperseded
}
