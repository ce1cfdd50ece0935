package db

import (
	"time"

	"github.com/py-dev-nandini-12/tier-system/internal/tier"
)

// User is the authoritative per-user record. Points only ever grow through
// earn operations; Tier is derived from Points and rewritten alongside it.
type User struct {
	Username string    `json:"username"`
	Points   int64     `json:"points"`
	Tier     tier.Tier `json:"tier"`
}

// PointEntry is one immutable row of the audit trail backing User.Points.
type PointEntry struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// LeaderboardEntry is the projection served by the leaderboard: ranked by
// points descending, ties broken by username ascending.
type LeaderboardEntry struct {
	Username string    `json:"username"`
	Points   int64     `json:"points"`
	Tier     tier.Tier `json:"tier"`
}
