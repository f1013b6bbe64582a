package storage

import (
	"fmt"
	"strings"
)

// EnqueueOutbox durably records a betting event awaiting sync. Re-enqueueing
// an event id already present is a no-op, so retried actions cannot duplicate.
func EnqueueOutbox(ev OutboxEvent) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO outbox (event_id, game_id, hole_number, event_type, actor, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.EventID, ev.GameID, ev.Hole, ev.EventType, ev.Actor, string(ev.Payload))
	if err != nil {
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}
	return nil
}

// PendingOutbox returns unacknowledged events in enqueue order.
func PendingOutbox(limit int) ([]OutboxEvent, error) {
	rows, err := db.Query(`
		SELECT id, event_id, game_id, hole_number, event_type, actor, payload, created_at
		FROM outbox
		WHERE acked_at IS NULL
		ORDER BY id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending outbox: %w", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		var payload string
		err := rows.Scan(&ev.ID, &ev.EventID, &ev.GameID, &ev.Hole, &ev.EventType, &ev.Actor, &payload, &ev.CreatedAt)
		if err != nil {
			return nil, err
		}
		ev.Payload = []byte(payload)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// PendingOutboxCount counts unacknowledged events.
func PendingOutboxCount() (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM outbox WHERE acked_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending outbox: %w", err)
	}
	return count, nil
}

// AckOutbox marks events as confirmed by the server. Only acknowledged events
// ever leave the pending set; failed flushes retain everything for retry.
func AckOutbox(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	query := fmt.Sprintf(`
		UPDATE outbox
		SET acked_at = CURRENT_TIMESTAMP
		WHERE id IN (%s)
	`, placeholders)

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to ack outbox events: %w", err)
	}
	return nil
}

// PurgeAckedOutbox deletes acknowledged events, keeping the table bounded.
func PurgeAckedOutbox() error {
	if _, err := db.Exec(`DELETE FROM outbox WHERE acked_at IS NOT NULL`); err != nil {
		return fmt.Errorf("failed to purge acked outbox: %w", err)
	}
	return nil
}
