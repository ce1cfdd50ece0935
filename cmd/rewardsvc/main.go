package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/py-dev-nandini-12/tier-system/internal/api"
	"github.com/py-dev-nandini-12/tier-system/internal/cache"
	"github.com/py-dev-nandini-12/tier-system/internal/db"
	"github.com/py-dev-nandini-12/tier-system/internal/rewards"
	"github.com/py-dev-nandini-12/tier-system/internal/websocket"
	"github.com/py-dev-nandini-12/tier-system/pkg/logger"
)

func main() {
	// Initialize logger
	logger.SetLevel(logger.INFO)
	err := logger.EnableFileLogging("./logs")
	if err != nil {
		log.Fatalf("Failed to enable file logging: %v", err)
	}

	logger.Info("Reward points service starting...")

	// Initialize the ledger store
	store, err := db.NewLedgerStore(db.ConfigFromEnv(), db.DefaultOperations{})
	if err != nil {
		logger.Fatal("Failed to initialize ledger store: %v", err)
	}
	defer store.Close()

	// Initialize the leaderboard cache
	leaderboardCache := cache.NewLeaderboard(cache.ConfigFromEnv())
	defer leaderboardCache.Close()

	// Initialize WebSocket manager
	wsManager := websocket.NewManager()
	go wsManager.Run()

	svc := rewards.NewService(store, leaderboardCache, wsManager)

	// Set up and run the API server
	r := api.SetupRouter(api.NewHandler(svc), wsManager)
	addr := ":" + envOr("APP_PORT", "8080")
	go func() {
		if err := r.Run(addr); err != nil {
			logger.Fatal("Failed to run server: %v", err)
		}
	}()

	// Periodically rebroadcast the leaderboard as a staleness backstop
	go refreshLeaderboardLoop(svc)

	// Keep the main goroutine running
	select {}
}

// refreshLeaderboardLoop recomputes the snapshot once a minute so the cache
// and live subscribers recover even if a write-through was lost.
func refreshLeaderboardLoop(svc rewards.Service) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := svc.RefreshLeaderboard(ctx); err != nil {
			logger.Error("Periodic leaderboard refresh failed: %v", err)
		}
		cancel()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
