// Package outbox implements offline-first sync of betting events to the
// league server: a durable queue of not-yet-acknowledged events, flushed in
// order, with idempotent server-side application keyed by event id. Events
// are only removed from the pending set after a confirmed round-trip, so
// delivery is at-least-once.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wolfgoatpig/internal/api"
	"wolfgoatpig/internal/engine"
	"wolfgoatpig/internal/logger"
	"wolfgoatpig/internal/storage"
)

// BatchThreshold is the pending-event count that triggers an automatic flush
const BatchThreshold = 5

// flushLimit caps how many events one flush drains from the queue
const flushLimit = 100

// Sender pushes one event batch to the server. *api.Client implements it.
type Sender interface {
	SyncEvents(ctx context.Context, req api.SyncRequest) error
}

// Manager owns the outbox: it enqueues events durably, flushes them in order,
// and broadcasts sync status to subscribers.
type Manager struct {
	sender Sender
	gameID string

	worker *retryWorker
	status *statusBroadcaster
}

// NewManager creates a manager for one game.
func NewManager(sender Sender, gameID string) *Manager {
	m := &Manager{
		sender: sender,
		gameID: gameID,
		status: newStatusBroadcaster(),
	}
	m.refreshPendingCount()
	return m
}

// Subscribe registers a listener for status updates. The listener is invoked
// synchronously with the current status and on every later change.
func (m *Manager) Subscribe(fn func(Status)) {
	m.status.subscribe(fn)
}

// Status returns the current sync status.
func (m *Manager) Status() Status {
	return m.status.current()
}

// Record durably enqueues a betting event and flushes automatically once the
// batch threshold is reached.
func (m *Manager) Record(ev engine.BettingEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = storage.EnqueueOutbox(storage.OutboxEvent{
		EventID:   ev.EventID,
		GameID:    ev.GameID,
		Hole:      ev.HoleNumber,
		EventType: string(ev.Type),
		Actor:     ev.Actor,
		Payload:   payload,
	})
	if err != nil {
		return err
	}

	count := m.refreshPendingCount()
	logger.Debug(m.gameID, "event_recorded", fmt.Sprintf("event_id=%s type=%s pending=%d", ev.EventID, ev.Type, count))

	if count >= BatchThreshold {
		// The flush must not block the caller: the event is already durable,
		// and a slow or unreachable server would otherwise stall gameplay.
		// Flush failures keep the buffer; the worker retries later.
		go func() {
			if err := m.Flush(context.Background()); err != nil {
				logger.Debug(m.gameID, "auto_flush_failed", fmt.Sprintf("error=%s", err.Error()))
			}
		}()
	}
	return nil
}

// CompleteHole injects a synthetic HOLE_COMPLETE event and triggers a flush.
// The flush groups events by hole, so completion never travels separately
// from the events it depends on.
func (m *Manager) CompleteHole(ctx context.Context, hole int) error {
	ev := engine.BettingEvent{
		EventID:    uuid.NewString(),
		GameID:     m.gameID,
		HoleNumber: hole,
		Type:       engine.EventHoleComplete,
		Actor:      engine.SystemActor,
		Timestamp:  time.Now(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode hole-complete event: %w", err)
	}

	err = storage.EnqueueOutbox(storage.OutboxEvent{
		EventID:   ev.EventID,
		GameID:    ev.GameID,
		Hole:      ev.HoleNumber,
		EventType: string(ev.Type),
		Actor:     ev.Actor,
		Payload:   payload,
	})
	if err != nil {
		return err
	}
	m.refreshPendingCount()

	// Completion must not stall hole turnover on a slow server: the synthetic
	// event is already durable and keeps its place in the hole's batch
	go func() {
		if err := m.Flush(context.Background()); err != nil {
			logger.Debug(m.gameID, "completion_flush_failed", fmt.Sprintf("error=%s", err.Error()))
		}
	}()
	return nil
}

// Flush drains the pending queue in enqueue order, one batch per hole. On
// failure nothing is acknowledged and the whole buffer is retained for retry.
func (m *Manager) Flush(ctx context.Context) error {
	if !m.status.beginProcessing() {
		// A flush is already running; the events it missed are picked up
		// by the next trigger
		return nil
	}
	defer m.status.endProcessing()

	pending, err := storage.PendingOutbox(flushLimit)
	if err != nil {
		m.failFlush(err)
		return err
	}
	if len(pending) == 0 {
		m.status.markSynced(0)
		return nil
	}

	for start := 0; start < len(pending); {
		end := start
		for end < len(pending) && pending[end].Hole == pending[start].Hole {
			end++
		}
		batch := pending[start:end]

		req := api.SyncRequest{
			GameID:     m.gameID,
			HoleNumber: batch[0].Hole,
			Events:     make([]api.SyncEvent, 0, len(batch)),
		}
		ids := make([]int64, 0, len(batch))
		for _, row := range batch {
			var ev api.SyncEvent
			if err := json.Unmarshal(row.Payload, &ev); err != nil {
				// A payload this process wrote should always decode; treat
				// anything else as a sync failure rather than dropping data
				m.failFlush(fmt.Errorf("failed to decode outbox payload %s: %w", row.EventID, err))
				return err
			}
			req.Events = append(req.Events, ev)
			ids = append(ids, row.ID)
		}

		if err := m.sender.SyncEvents(ctx, req); err != nil {
			m.failFlush(err)
			return err
		}
		if err := storage.AckOutbox(ids); err != nil {
			m.failFlush(err)
			return err
		}
		logger.Debug(m.gameID, "batch_synced", fmt.Sprintf("hole=%d events=%d", req.HoleNumber, len(req.Events)))

		start = end
	}

	// Acknowledged rows are done; keep the table from growing unbounded
	if err := storage.PurgeAckedOutbox(); err != nil {
		logger.Debug(m.gameID, "outbox_purge_failed", fmt.Sprintf("error=%s", err.Error()))
	}

	count := m.refreshPendingCount()
	m.status.markSynced(count)
	return nil
}

// StartWorker begins the background retry loop. Run Stop to halt it.
func (m *Manager) StartWorker(interval time.Duration) {
	if m.worker != nil {
		return
	}
	m.worker = newRetryWorker(m, interval)
	m.worker.start()
}

// Stop halts the background retry loop.
func (m *Manager) Stop() {
	if m.worker != nil {
		m.worker.stop()
		m.worker = nil
	}
}

func (m *Manager) refreshPendingCount() int {
	count, err := storage.PendingOutboxCount()
	if err != nil {
		logger.Debug(m.gameID, "pending_count_failed", fmt.Sprintf("error=%s", err.Error()))
		return 0
	}
	m.status.setPending(count)
	return count
}

func (m *Manager) failFlush(err error) {
	logger.Debug(m.gameID, "flush_failed", fmt.Sprintf("error=%s", err.Error()))
	offline := true
	if _, ok := err.(*api.APIError); ok {
		// The server answered; the transport is up
		offline = false
	}
	m.status.markError(err.Error(), offline)
}
