package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SaveSnapshot writes the current game snapshot, rotating the previous
// current generation into the backup slot in the same transaction.
func SaveSnapshot(gameID string, payload []byte) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Rotate: current becomes the backup generation
	_, err = tx.Exec(`
		INSERT INTO snapshots (slot, game_id, payload, saved_at)
		SELECT ?, game_id, payload, saved_at FROM snapshots WHERE slot = ?
		ON CONFLICT(slot) DO UPDATE SET
			game_id = excluded.game_id,
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`, SnapshotSlotBackup, SnapshotSlotCurrent)
	if err != nil {
		return fmt.Errorf("failed to rotate backup snapshot: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO snapshots (slot, game_id, payload, saved_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot) DO UPDATE SET
			game_id = excluded.game_id,
			payload = excluded.payload,
			saved_at = CURRENT_TIMESTAMP
	`, SnapshotSlotCurrent, gameID, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the current snapshot, or nil when none exists. A
// snapshot older than maxAge is an abandoned game: it is deleted rather than
// silently resumed.
func LoadSnapshot(maxAge time.Duration) (*Snapshot, error) {
	snap, err := loadSlot(SnapshotSlotCurrent)
	if err != nil || snap == nil {
		return snap, err
	}

	if maxAge > 0 && time.Since(snap.SavedAt) > maxAge {
		if _, err := db.Exec(`DELETE FROM snapshots`); err != nil {
			return nil, fmt.Errorf("failed to discard stale snapshot: %w", err)
		}
		return nil, nil
	}
	return snap, nil
}

// LoadBackupSnapshot returns the previous good generation, for recovery when
// the current payload fails to decode.
func LoadBackupSnapshot() (*Snapshot, error) {
	return loadSlot(SnapshotSlotBackup)
}

// ClearSnapshots removes both generations, e.g. when a round is finalized.
func ClearSnapshots() error {
	if _, err := db.Exec(`DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return nil
}

func loadSlot(slot string) (*Snapshot, error) {
	var snap Snapshot
	var payload string
	err := db.QueryRow(`
		SELECT slot, game_id, payload, saved_at
		FROM snapshots
		WHERE slot = ?
	`, slot).Scan(&snap.Slot, &snap.GameID, &payload, &snap.SavedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s snapshot: %w", slot, err)
	}
	snap.Payload = []byte(payload)
	return &snap, nil
}
