package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wolfgoatpig/internal/api"
	"wolfgoatpig/internal/engine"
	"wolfgoatpig/internal/storage"
)

func setupTestDB(t *testing.T) {
	// Use in-memory database for tests
	if err := storage.InitDB(":memory:"); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
}

func cleanupTestDB(t *testing.T) {
	storage.CloseDB()
}

// fakeSender captures sync batches and can be told to fail.
type fakeSender struct {
	mu       sync.Mutex
	batches  []api.SyncRequest
	failWith error
}

func (f *fakeSender) SyncEvents(ctx context.Context, req api.SyncRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.batches = append(f.batches, req)
	return nil
}

func (f *fakeSender) sent() []api.SyncRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.SyncRequest{}, f.batches...)
}

func (f *fakeSender) setFailure(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = err
}

// slowSender delays every push, standing in for a sluggish server.
type slowSender struct {
	fakeSender
	delay time.Duration
}

func (s *slowSender) SyncEvents(ctx context.Context, req api.SyncRequest) error {
	time.Sleep(s.delay)
	return s.fakeSender.SyncEvents(ctx, req)
}

func waitForState(t *testing.T, m *Manager, want SyncState) Status {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st := m.Status(); st.State == want {
			return st
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for sync state %q, have %q", want, m.Status().State)
	return Status{}
}

func testEvent(id string, hole int) engine.BettingEvent {
	return engine.BettingEvent{
		EventID:    id,
		GameID:     "game-1",
		HoleNumber: hole,
		Type:       engine.EventDoubleOffered,
		Actor:      "p1",
		Timestamp:  time.Now(),
	}
}

func TestBatchThresholdTriggersFlush(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	sender := &fakeSender{}
	m := NewManager(sender, "game-1")

	var transitionsMu sync.Mutex
	var transitions []SyncState
	m.Subscribe(func(s Status) {
		transitionsMu.Lock()
		defer transitionsMu.Unlock()
		if len(transitions) == 0 || transitions[len(transitions)-1] != s.State {
			transitions = append(transitions, s.State)
		}
	})

	for i := 1; i <= 4; i++ {
		assert.NoError(t, m.Record(testEvent(fmt.Sprintf("e%d", i), 3)))
	}
	assert.Empty(t, sender.sent(), "no flush before the threshold")
	assert.Equal(t, StatePending, m.Status().State)

	// Fifth event crosses the threshold
	assert.NoError(t, m.Record(testEvent("e5", 3)))

	status := waitForState(t, m, StateSynced)
	assert.Equal(t, 0, status.PendingCount)
	assert.True(t, status.IsOnline)
	assert.False(t, status.LastSync.IsZero())

	batches := sender.sent()
	assert.Len(t, batches, 1)
	assert.Len(t, batches[0].Events, 5)
	assert.Equal(t, "game-1", batches[0].GameID)
	assert.Equal(t, 3, batches[0].HoleNumber)

	// synced -> pending -> synced, exactly once around the flush
	transitionsMu.Lock()
	assert.Equal(t, []SyncState{StateSynced, StatePending, StateSynced}, transitions)
	transitionsMu.Unlock()

	// Event order within the batch matches dispatch order
	for i, ev := range batches[0].Events {
		assert.Equal(t, fmt.Sprintf("e%d", i+1), ev.EventID)
	}
}

func TestRecordDoesNotBlockOnFlush(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	sender := &slowSender{delay: 750 * time.Millisecond}
	m := NewManager(sender, "game-1")

	for i := 1; i <= 4; i++ {
		assert.NoError(t, m.Record(testEvent(fmt.Sprintf("e%d", i), 1)))
	}

	// The threshold flush runs in the background; recording must return
	// long before the slow push finishes
	start := time.Now()
	assert.NoError(t, m.Record(testEvent("e5", 1)))
	assert.Less(t, time.Since(start), 250*time.Millisecond,
		"recording an event must not wait for the network")

	// Further events keep flowing while the push is still in flight
	assert.NoError(t, m.Record(testEvent("e6", 1)))

	waitForState(t, m, StateSynced)
	assert.NotEmpty(t, sender.sent())

	// A follow-up flush drains anything the in-flight push missed
	assert.NoError(t, m.Flush(context.Background()))
	assert.Equal(t, 0, m.Status().PendingCount)
}

func TestFailedFlushRetainsBuffer(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	sender := &fakeSender{}
	sender.setFailure(errors.New("connection refused"))
	m := NewManager(sender, "game-1")

	for i := 1; i <= 5; i++ {
		assert.NoError(t, m.Record(testEvent(fmt.Sprintf("e%d", i), 1)))
	}

	status := waitForState(t, m, StateError)
	assert.False(t, status.IsOnline, "transport failure flips online off")
	assert.NotEmpty(t, status.Errors)

	count, err := storage.PendingOutboxCount()
	assert.NoError(t, err)
	assert.Equal(t, 5, count, "failed flush must retain all events")

	// Recovery: the next flush drains the same five events
	sender.setFailure(nil)
	assert.NoError(t, m.Flush(context.Background()))

	batches := sender.sent()
	assert.Len(t, batches, 1)
	assert.Len(t, batches[0].Events, 5)
	assert.Equal(t, StateSynced, m.Status().State)
	assert.True(t, m.Status().IsOnline)
}

func TestServerErrorKeepsOnline(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	sender := &fakeSender{}
	sender.setFailure(&api.APIError{Status: 500, Detail: "boom"})
	m := NewManager(sender, "game-1")

	assert.NoError(t, m.Record(testEvent("e1", 1)))
	assert.Error(t, m.Flush(context.Background()))

	status := m.Status()
	assert.Equal(t, StateError, status.State)
	assert.True(t, status.IsOnline, "an HTTP error response still means the transport is up")
}

func TestCompleteHoleInjectsSyntheticEvent(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	sender := &fakeSender{}
	m := NewManager(sender, "game-1")

	assert.NoError(t, m.Record(testEvent("e1", 4)))
	assert.NoError(t, m.Record(testEvent("e2", 4)))
	assert.NoError(t, m.CompleteHole(context.Background(), 4))
	waitForState(t, m, StateSynced)

	batches := sender.sent()
	assert.Len(t, batches, 1)
	assert.Len(t, batches[0].Events, 3, "hole events plus the synthetic completion")

	last := batches[0].Events[2]
	assert.Equal(t, string(engine.EventHoleComplete), last.EventType)
	assert.Equal(t, engine.SystemActor, last.Actor)
	assert.NotEmpty(t, last.EventID)

	count, err := storage.PendingOutboxCount()
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFlushBatchesPerHole(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	sender := &fakeSender{}
	m := NewManager(sender, "game-1")

	assert.NoError(t, m.Record(testEvent("e1", 1)))
	assert.NoError(t, m.Record(testEvent("e2", 1)))
	assert.NoError(t, m.Record(testEvent("e3", 2)))
	assert.NoError(t, m.Flush(context.Background()))

	batches := sender.sent()
	assert.Len(t, batches, 2)
	assert.Equal(t, 1, batches[0].HoleNumber)
	assert.Len(t, batches[0].Events, 2)
	assert.Equal(t, 2, batches[1].HoleNumber)
	assert.Len(t, batches[1].Events, 1)
}

func TestManagerResumesPendingAcrossRestart(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	sender := &fakeSender{}
	sender.setFailure(errors.New("offline"))
	m := NewManager(sender, "game-1")
	assert.NoError(t, m.Record(testEvent("e1", 1)))

	// A new manager over the same database sees the surviving queue
	m2 := NewManager(sender, "game-1")
	assert.Equal(t, 1, m2.Status().PendingCount)
	assert.Equal(t, StatePending, m2.Status().State)

	sender.setFailure(nil)
	assert.NoError(t, m2.Flush(context.Background()))
	assert.Equal(t, StateSynced, m2.Status().State)
}
