package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CostSource provides the current aggregate monthly cost.
type CostSource interface {
	TotalCost() float64
}

// Dispatcher queues alerts for delivery.
type Dispatcher interface {
	Dispatch(alert Alert)
}

// BudgetWatcher periodically compares the monthly cost with the budget and
// dispatches an alert each time the cost crosses above it.
type BudgetWatcher struct {
	budget   float64
	interval time.Duration
	source   CostSource
	out      Dispatcher
	logger   *slog.Logger

	mu   sync.Mutex
	over bool
}

// NewBudgetWatcher creates a watcher. A budget of zero or less disables it.
func NewBudgetWatcher(budget float64, interval time.Duration, source CostSource, out Dispatcher, logger *slog.Logger) *BudgetWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &BudgetWatcher{
		budget:   budget,
		interval: interval,
		source:   source,
		out:      out,
		logger:   logger,
	}
}

// Run checks the budget on every tick until ctx is done.
func (w *BudgetWatcher) Run(ctx context.Context) {
	if w.budget <= 0 {
		w.logger.Info("budget alerts are disabled")
		return
	}
	w.logger.Info("starting budget watcher", "budget", w.budget, "interval", w.interval)

	w.CheckOnce()

	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("budget watcher shutting down")
			return
		case <-timer.C:
			w.CheckOnce()
			timer.Reset(w.interval)
		}
	}
}

// CheckOnce evaluates the budget and reports whether an alert was
// dispatched. Staying above the budget does not alert again; dropping back
// to or below it re-arms the alert.
func (w *BudgetWatcher) CheckOnce() bool {
	if w.budget <= 0 {
		return false
	}
	cost := w.source.TotalCost()

	nowOver := cost > w.budget

	w.mu.Lock()
	wasOver := w.over
	w.over = nowOver
	w.mu.Unlock()

	if nowOver && !wasOver {
		w.out.Dispatch(Alert{TotalCost: cost, Budget: w.budget})
		return true
	}
	return false
}
