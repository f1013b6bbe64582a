package logger

import (
	"log"
	"time"
)

// Debug logs a debug message with consistent format
// Format: [DEBUG] timestamp=... game=... action=... details=...
func Debug(gameRef, action, details string) {
	timestamp := time.Now().Format(time.RFC3339)
	log.Printf("[DEBUG] timestamp=%s game=%s action=%s details=%s", timestamp, gameRef, action, details)
}
