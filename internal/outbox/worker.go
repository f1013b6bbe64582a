package outbox

import (
	"context"
	"fmt"
	"time"

	"wolfgoatpig/internal/logger"
)

// retryWorker periodically reflushes the outbox while events remain pending,
// giving failed batches their at-least-once retries.
type retryWorker struct {
	manager *Manager
	ctx     context.Context
	cancel  context.CancelFunc
	ticker  *time.Ticker
}

func newRetryWorker(m *Manager, interval time.Duration) *retryWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &retryWorker{
		manager: m,
		ctx:     ctx,
		cancel:  cancel,
		ticker:  time.NewTicker(interval),
	}
}

// start begins the background loop.
func (w *retryWorker) start() {
	logger.Debug(w.manager.gameID, "sync_worker_started", "")

	go func() {
		for {
			select {
			case <-w.ticker.C:
				w.retryPending()
			case <-w.ctx.Done():
				logger.Debug(w.manager.gameID, "sync_worker_stopped", "")
				return
			}
		}
	}()
}

// stop halts the background loop.
func (w *retryWorker) stop() {
	w.ticker.Stop()
	w.cancel()
}

func (w *retryWorker) retryPending() {
	status := w.manager.Status()
	if status.PendingCount == 0 || status.IsProcessing {
		return
	}
	if err := w.manager.Flush(w.ctx); err != nil {
		logger.Debug(w.manager.gameID, "sync_retry_failed", fmt.Sprintf("error=%s", err.Error()))
	}
}
