package db

import "github.com/py-dev-nandini-12/tier-system/internal/tier"

// LedgerStore is the durable source of truth for users and point entries.
type LedgerStore interface {
	CreateUser(username string) (User, error)
	GetUser(username string) (User, error)
	RecordEarn(username, entryType string, amount int64) (User, error)
	SetTier(username string, t tier.Tier) error
	TopUsers(n int) ([]LeaderboardEntry, error)
	GetPointHistory(username string) ([]PointEntry, error)
	Close() error
}
