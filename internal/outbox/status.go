package outbox

import (
	"sync"
	"time"
)

// SyncState is the coarse sync status surfaced to the UI.
type SyncState string

const (
	StateSynced  SyncState = "synced"
	StatePending SyncState = "pending"
	StateError   SyncState = "error"
)

// Status is a point-in-time view of the sync machinery, published to
// subscribers so UI surfaces never need to poll.
type Status struct {
	State        SyncState `json:"state"`
	PendingCount int       `json:"pending_count"`
	IsProcessing bool      `json:"is_processing"`
	LastSync     time.Time `json:"last_sync,omitempty"`
	IsOnline     bool      `json:"is_online"`
	Errors       []string  `json:"errors,omitempty"`
}

// statusBroadcaster holds the live status and fans updates out to listeners.
// Listeners are invoked synchronously under the lock, in subscription order.
type statusBroadcaster struct {
	mu        sync.Mutex
	status    Status
	listeners []func(Status)
}

func newStatusBroadcaster() *statusBroadcaster {
	return &statusBroadcaster{
		status: Status{State: StateSynced, IsOnline: true},
	}
}

func (b *statusBroadcaster) subscribe(fn func(Status)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	current := b.status
	b.mu.Unlock()
	fn(current)
}

func (b *statusBroadcaster) current() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// beginProcessing marks a flush in progress; returns false if one is running.
func (b *statusBroadcaster) beginProcessing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status.IsProcessing {
		return false
	}
	b.status.IsProcessing = true
	b.notifyLocked()
	return true
}

func (b *statusBroadcaster) endProcessing() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status.IsProcessing = false
	b.notifyLocked()
}

func (b *statusBroadcaster) setPending(count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status.PendingCount = count
	if count > 0 && b.status.State == StateSynced {
		b.status.State = StatePending
	}
	b.notifyLocked()
}

func (b *statusBroadcaster) markSynced(pending int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status.PendingCount = pending
	b.status.State = StateSynced
	if pending > 0 {
		b.status.State = StatePending
	}
	b.status.LastSync = time.Now()
	b.status.IsOnline = true
	b.status.Errors = nil
	b.notifyLocked()
}

func (b *statusBroadcaster) markError(message string, offline bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status.State = StateError
	if offline {
		b.status.IsOnline = false
	}
	b.status.Errors = append(b.status.Errors, message)
	if len(b.status.Errors) > 10 {
		b.status.Errors = b.status.Errors[len(b.status.Errors)-10:]
	}
	b.notifyLocked()
}

func (b *statusBroadcaster) notifyLocked() {
	for _, fn := range b.listeners {
		fn(b.status)
	}
}
