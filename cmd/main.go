package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"wolfgoatpig/internal/api"
	"wolfgoatpig/internal/bot"
	"wolfgoatpig/internal/cache"
	"wolfgoatpig/internal/config"
	"wolfgoatpig/internal/engine"
	"wolfgoatpig/internal/game"
	"wolfgoatpig/internal/handlers"
	"wolfgoatpig/internal/outbox"
	"wolfgoatpig/internal/storage"
)

func main() {
	cfg := config.Load()

	// Initialize SQLite database
	log.Printf("Initializing database at: %s", cfg.DatabasePath)
	if err := storage.InitDB(cfg.DatabasePath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer storage.CloseDB()

	client := api.NewClient(cfg.ServerBaseURL)

	// The outbox manager is bound to the game id; a restorable snapshot
	// decides it before the session exists
	gameID := uuid.NewString()
	if snap, err := storage.LoadSnapshot(cfg.SnapshotMaxAge); err == nil && snap != nil {
		gameID = snap.GameID
	}
	manager := outbox.NewManager(client, gameID)

	// Restore the saved round or start a fresh one
	session, err := game.Restore(manager, cfg.SnapshotMaxAge)
	if err != nil {
		log.Printf("Failed to restore saved game: %v", err)
	}
	if session != nil && session.Phase().IsGameComplete() {
		log.Printf("Game %s is complete, starting fresh", session.GameID())
		if err := storage.ClearSnapshots(); err != nil {
			log.Printf("Failed to clear finished game: %v", err)
		}
		gameID = uuid.NewString()
		manager = outbox.NewManager(client, gameID)
		session = nil
	}
	if session == nil {
		players, err := loadPlayers()
		if err != nil {
			log.Fatalf("Failed to load players: %v", err)
		}
		session, err = game.NewSession(gameID, players, 1, manager)
		if err != nil {
			log.Fatalf("Failed to start game: %v", err)
		}
		log.Printf("Started new game %s with %d players", session.GameID(), len(players))
	} else {
		log.Printf("Restored game %s at hole %d", session.GameID(), session.Phase().CurrentHole)
	}
	defer session.Close()

	// Background sync retry
	manager.StartWorker(cfg.SyncInterval)
	defer manager.Stop()

	// Course and statistics caches
	courseCache, err := cache.NewCourseCache(cache.DefaultCourseCapacity)
	if err != nil {
		log.Fatalf("Failed to create course cache: %v", err)
	}
	courses := cache.NewCourseStore(client, courseCache)
	stats := cache.NewStatsCache(cache.DefaultStatsCapacity, 0)

	// Start bot in a goroutine
	if cfg.TelegramToken != "" {
		go bot.StartBot(bot.Deps{
			Config:  cfg,
			Session: session,
			Manager: manager,
			Client:  client,
			Courses: courses,
			Stats:   stats,
		})
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	// Loopback status API
	mux := handlers.NewMux(session, manager)
	addr := fmt.Sprintf("127.0.0.1:%s", cfg.Port)
	log.Printf("Server starting on %s", addr)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
}

// loadPlayers builds the roster for a fresh round: cached profiles when at
// least four exist, else the PLAYERS environment variable ("Al,Bea,Cy,Dot"),
// which is then cached as profiles for next time.
func loadPlayers() ([]engine.Player, error) {
	profiles, err := storage.ListProfiles()
	if err != nil {
		return nil, err
	}
	if len(profiles) >= 4 {
		players := make([]engine.Player, len(profiles))
		for i, p := range profiles {
			players[i] = engine.Player{ID: p.ID, Name: p.Name, Handicap: p.Handicap, TeeOrder: p.TeeOrder}
		}
		return players, nil
	}

	raw := os.Getenv("PLAYERS")
	if raw == "" {
		return nil, fmt.Errorf("no cached profiles and PLAYERS not set")
	}
	var players []engine.Player
	for i, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p := engine.Player{
			ID:       strings.ToLower(name),
			Name:     name,
			TeeOrder: i + 1,
		}
		players = append(players, p)
		if err := storage.SaveProfile(storage.Profile{ID: p.ID, Name: p.Name, TeeOrder: p.TeeOrder}); err != nil {
			log.Printf("Failed to cache profile %s: %v", p.ID, err)
		}
	}
	return players, nil
}
