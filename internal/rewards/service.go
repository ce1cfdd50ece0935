// Package rewards wires the ledger store, the tier policy and the
// leaderboard cache into the per-request pipelines: mutations commit to the
// ledger first and then refresh the cache, reads go through the cache and
// fall back to the ledger.
package rewards

import (
	"context"

	"github.com/py-dev-nandini-12/tier-system/internal/db"
	"github.com/py-dev-nandini-12/tier-system/pkg/logger"
)

// TopN is the fixed size of the leaderboard snapshot.
const TopN = 5

// SnapshotCache is the subset of the cache the service depends on.
type SnapshotCache interface {
	Read(ctx context.Context) ([]db.LeaderboardEntry, bool)
	Write(ctx context.Context, entries []db.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

// Broadcaster pushes leaderboard and per-user updates to live subscribers.
type Broadcaster interface {
	BroadcastLeaderboardUpdate(leaderboard []db.LeaderboardEntry) error
	BroadcastUserUpdate(user db.User) error
}

// Service is the application-facing API over the points subsystem.
type Service interface {
	CreateUser(ctx context.Context, username string) (db.User, error)
	EarnPoints(ctx context.Context, username, entryType string, amount int64) (db.User, error)
	Leaderboard(ctx context.Context) ([]db.LeaderboardEntry, error)
	PointHistory(ctx context.Context, username string) ([]db.PointEntry, error)
	RefreshLeaderboard(ctx context.Context) ([]db.LeaderboardEntry, error)
}

type service struct {
	store db.LedgerStore
	cache SnapshotCache
	ws    Broadcaster
}

// NewService builds the service. ws may be nil when live updates are not
// wanted (tests, batch tools).
func NewService(store db.LedgerStore, cache SnapshotCache, ws Broadcaster) Service {
	return &service{store: store, cache: cache, ws: ws}
}

func (s *service) CreateUser(ctx context.Context, username string) (db.User, error) {
	return s.store.CreateUser(username)
}

// EarnPoints applies the mutation path: the ledger transaction (entry +
// atomic increment + tier) must commit before anything touches the cache.
// Cache and broadcast failures are logged and swallowed; the earn has
// already durably happened and is reported as a success.
func (s *service) EarnPoints(ctx context.Context, username, entryType string, amount int64) (db.User, error) {
	user, err := s.store.RecordEarn(username, entryType, amount)
	if err != nil {
		return db.User{}, err
	}

	if _, err := s.RefreshLeaderboard(ctx); err != nil {
		logger.Warn("leaderboard refresh after earn for %s failed: %v", username, err)
	}

	if s.ws != nil {
		if err := s.ws.BroadcastUserUpdate(user); err != nil {
			logger.Warn("user update broadcast failed: %v", err)
		}
	}

	return user, nil
}

// Leaderboard serves the read path: cache hit wins, a miss falls through to
// the store and repopulates the cache.
func (s *service) Leaderboard(ctx context.Context) ([]db.LeaderboardEntry, error) {
	if entries, ok := s.cache.Read(ctx); ok {
		return entries, nil
	}

	entries, err := s.store.TopUsers(TopN)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Write(ctx, entries); err != nil {
		logger.Warn("leaderboard cache populate failed: %v", err)
	}

	return entries, nil
}

func (s *service) PointHistory(ctx context.Context, username string) ([]db.PointEntry, error) {
	return s.store.GetPointHistory(username)
}

// RefreshLeaderboard recomputes the snapshot from the store, overwrites the
// cache unconditionally and notifies subscribers. Overwriting (rather than
// merely invalidating) avoids a miss storm on the next read.
func (s *service) RefreshLeaderboard(ctx context.Context) ([]db.LeaderboardEntry, error) {
	entries, err := s.store.TopUsers(TopN)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Write(ctx, entries); err != nil {
		logger.Warn("leaderboard cache write failed: %v", err)
	}

	if s.ws != nil {
		if err := s.ws.BroadcastLeaderboardUpdate(entries); err != nil {
			logger.Warn("leaderboard broadcast failed: %v", err)
		}
	}

	return entries, nil
}
