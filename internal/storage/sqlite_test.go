package storage

import (
	"testing"
	"time"
)

func setupTestDB(t *testing.T) {
	// Use in-memory database for tests
	if err := InitDB(":memory:"); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
}

func cleanupTestDB(t *testing.T) {
	CloseDB()
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	if err := SaveSnapshot("game-1", []byte(`{"hole":3}`)); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	snap, err := LoadSnapshot(24 * time.Hour)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap == nil {
		t.Fatal("Expected snapshot, got nil")
	}
	if snap.GameID != "game-1" {
		t.Errorf("Expected game-1, got %s", snap.GameID)
	}
	if string(snap.Payload) != `{"hole":3}` {
		t.Errorf("Payload mismatch: %s", snap.Payload)
	}
}

func TestLoadSnapshotEmpty(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	snap, err := LoadSnapshot(24 * time.Hour)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap != nil {
		t.Error("Expected nil snapshot for empty database")
	}
}

func TestSnapshotBackupGeneration(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	if err := SaveSnapshot("game-1", []byte(`{"hole":3}`)); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if err := SaveSnapshot("game-1", []byte(`{"hole":4}`)); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	current, err := LoadSnapshot(24 * time.Hour)
	if err != nil || current == nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if string(current.Payload) != `{"hole":4}` {
		t.Errorf("Expected latest generation, got %s", current.Payload)
	}

	backup, err := LoadBackupSnapshot()
	if err != nil || backup == nil {
		t.Fatalf("LoadBackupSnapshot failed: %v", err)
	}
	if string(backup.Payload) != `{"hole":3}` {
		t.Errorf("Expected previous generation, got %s", backup.Payload)
	}
}

func TestStaleSnapshotDiscarded(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	if err := SaveSnapshot("game-1", []byte(`{}`)); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	// Backdate the save beyond the abandonment cutoff
	_, err := DB().Exec(`UPDATE snapshots SET saved_at = datetime('now', '-25 hours')`)
	if err != nil {
		t.Fatalf("Failed to backdate snapshot: %v", err)
	}

	snap, err := LoadSnapshot(24 * time.Hour)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap != nil {
		t.Error("Expected stale snapshot to be discarded")
	}

	// Discard removes the row, not just hides it
	var count int
	if err := DB().QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected snapshots deleted, found %d rows", count)
	}
}

func TestOutboxEnqueuePendingAck(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	for i, id := range []string{"e1", "e2", "e3"} {
		err := EnqueueOutbox(OutboxEvent{
			EventID:   id,
			GameID:    "game-1",
			Hole:      i + 1,
			EventType: "DOUBLE_OFFERED",
			Actor:     "p1",
			Payload:   []byte(`{}`),
		})
		if err != nil {
			t.Fatalf("EnqueueOutbox failed: %v", err)
		}
	}

	// Duplicate event ids are ignored
	err := EnqueueOutbox(OutboxEvent{EventID: "e1", GameID: "game-1", Hole: 1, EventType: "DOUBLE_OFFERED", Actor: "p1", Payload: []byte(`{}`)})
	if err != nil {
		t.Fatalf("Duplicate enqueue failed: %v", err)
	}

	count, err := PendingOutboxCount()
	if err != nil {
		t.Fatalf("PendingOutboxCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 pending, got %d", count)
	}

	pending, err := PendingOutbox(10)
	if err != nil {
		t.Fatalf("PendingOutbox failed: %v", err)
	}
	if len(pending) != 3 || pending[0].EventID != "e1" || pending[2].EventID != "e3" {
		t.Errorf("Expected enqueue order preserved, got %+v", pending)
	}

	// Ack the first two; the third stays pending
	if err := AckOutbox([]int64{pending[0].ID, pending[1].ID}); err != nil {
		t.Fatalf("AckOutbox failed: %v", err)
	}
	remaining, err := PendingOutbox(10)
	if err != nil {
		t.Fatalf("PendingOutbox failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].EventID != "e3" {
		t.Errorf("Expected only e3 pending, got %+v", remaining)
	}

	if err := PurgeAckedOutbox(); err != nil {
		t.Fatalf("PurgeAckedOutbox failed: %v", err)
	}
}

func TestProfilesAndSelection(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	if err := SaveProfile(Profile{ID: "p1", Name: "Al", Handicap: 10.4}); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if err := SaveProfile(Profile{ID: "p2", Name: "Bob", Handicap: 12}); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	profiles, err := ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if len(profiles) != 2 {
		t.Errorf("Expected 2 profiles, got %d", len(profiles))
	}

	selected, err := SelectedProfile()
	if err != nil {
		t.Fatalf("SelectedProfile failed: %v", err)
	}
	if selected != nil {
		t.Error("Expected no selection initially")
	}

	if err := SelectProfile("p2"); err != nil {
		t.Fatalf("SelectProfile failed: %v", err)
	}
	selected, err = SelectedProfile()
	if err != nil {
		t.Fatalf("SelectedProfile failed: %v", err)
	}
	if selected == nil || selected.ID != "p2" {
		t.Errorf("Expected p2 selected, got %+v", selected)
	}

	// Upsert updates in place
	if err := SaveProfile(Profile{ID: "p2", Name: "Bobby", Handicap: 11}); err != nil {
		t.Fatalf("SaveProfile upsert failed: %v", err)
	}
	p, err := GetProfile("p2")
	if err != nil || p == nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.Name != "Bobby" || p.Handicap != 11 {
		t.Errorf("Expected updated profile, got %+v", p)
	}
}
