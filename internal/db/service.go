package db

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"

	apperrors "github.com/py-dev-nandini-12/tier-system/internal/errors"
	"github.com/py-dev-nandini-12/tier-system/internal/tier"
	"github.com/py-dev-nandini-12/tier-system/pkg/logger"
)

// uniqueViolation is the Postgres SQLSTATE for duplicate-key errors.
const uniqueViolation = "23505"

// LedgerStoreImpl implements LedgerStore on top of Postgres.
type LedgerStoreImpl struct {
	db *sql.DB
}

// DBOperations abstracts connection opening and migrations so tests can
// substitute a mock database.
type DBOperations interface {
	Open(driverName, dataSourceName string) (*sql.DB, error)
	RunMigrations(db *sql.DB, sourceURL string) error
}

// DefaultOperations opens real connections and runs the migrations shipped
// under migrations/.
type DefaultOperations struct{}

func (DefaultOperations) Open(driverName, dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

func (DefaultOperations) RunMigrations(db *sql.DB, sourceURL string) error {
	return RunMigrations(db, sourceURL)
}

// NewLedgerStore connects to Postgres using cfg and brings the schema up to
// date before returning the store.
func NewLedgerStore(cfg Config, ops DBOperations) (LedgerStore, error) {
	db, err := ops.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, &apperrors.DatabaseError{Operation: "open connection", Err: err}
	}

	if err := db.Ping(); err != nil {
		return nil, &apperrors.DatabaseError{Operation: "ping database", Err: err}
	}

	if err := ops.RunMigrations(db, cfg.MigrationsURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &LedgerStoreImpl{db: db}, nil
}

// CreateUser inserts a fresh user with zero points at the Bronze tier.
func (s *LedgerStoreImpl) CreateUser(username string) (User, error) {
	var user User
	err := s.db.QueryRow(`
		INSERT INTO users (username, points, tier)
		VALUES ($1, 0, $2)
		RETURNING username, points, tier`, username, string(tier.Bronze)).
		Scan(&user.Username, &user.Points, &user.Tier)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return User{}, &apperrors.AlreadyExistsError{Resource: "user", Identifier: username}
		}
		return User{}, &apperrors.DatabaseError{Operation: "create user", Err: err}
	}
	return user, nil
}

// GetUser retrieves a single user by username.
func (s *LedgerStoreImpl) GetUser(username string) (User, error) {
	var user User
	err := s.db.QueryRow(
		"SELECT username, points, tier FROM users WHERE username = $1", username).
		Scan(&user.Username, &user.Points, &user.Tier)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, &apperrors.NotFoundError{Resource: "user", Identifier: username}
		}
		return User{}, &apperrors.DatabaseError{Operation: "get user", Err: err}
	}
	return user, nil
}

// RecordEarn appends one point entry and applies the increment and the
// derived tier as a single transaction. The increment happens in SQL
// (points = points + n), never as a read-modify-write in Go, so concurrent
// earners for the same user cannot lose updates.
func (s *LedgerStoreImpl) RecordEarn(username, entryType string, amount int64) (User, error) {
	if amount <= 0 {
		return User{}, &apperrors.InvalidAmountError{Amount: amount}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return User{}, &apperrors.DatabaseError{Operation: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	var user User
	err = tx.QueryRow(`
		UPDATE users SET points = points + $2
		WHERE username = $1
		RETURNING username, points`, username, amount).
		Scan(&user.Username, &user.Points)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, &apperrors.NotFoundError{Resource: "user", Identifier: username}
		}
		return User{}, &apperrors.DatabaseError{Operation: "increment points", Err: err}
	}

	_, err = tx.Exec(`
		INSERT INTO point_entries (username, type, amount)
		VALUES ($1, $2, $3)`, username, entryType, amount)
	if err != nil {
		return User{}, &apperrors.DatabaseError{Operation: "insert point entry", Err: err}
	}

	// Tier is always re-derived from the full total, inside the same
	// transaction as the increment it was computed from.
	user.Tier = tier.ForPoints(user.Points)
	_, err = tx.Exec(
		"UPDATE users SET tier = $2 WHERE username = $1", username, string(user.Tier))
	if err != nil {
		return User{}, &apperrors.DatabaseError{Operation: "update tier", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return User{}, &apperrors.DatabaseError{Operation: "commit transaction", Err: err}
	}
	return user, nil
}

// SetTier overwrites a user's tier directly. The earn path recomputes tier
// inside its own transaction; this exists for administrative repair.
func (s *LedgerStoreImpl) SetTier(username string, t tier.Tier) error {
	res, err := s.db.Exec(
		"UPDATE users SET tier = $2 WHERE username = $1", username, string(t))
	if err != nil {
		return &apperrors.DatabaseError{Operation: "set tier", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &apperrors.DatabaseError{Operation: "set tier", Err: err}
	}
	if affected == 0 {
		return &apperrors.NotFoundError{Resource: "user", Identifier: username}
	}
	return nil
}

// TopUsers returns the top-n users ordered by points descending. Equal
// totals are broken by username ascending so the ranking is deterministic
// for a given store state.
func (s *LedgerStoreImpl) TopUsers(n int) ([]LeaderboardEntry, error) {
	rows, err := s.db.Query(`
		SELECT username, points, tier FROM users
		ORDER BY points DESC, username ASC
		LIMIT $1`, n)
	if err != nil {
		return nil, &apperrors.DatabaseError{Operation: "query top users", Err: err}
	}
	defer rows.Close()

	entries := make([]LeaderboardEntry, 0, n)
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.Username, &entry.Points, &entry.Tier); err != nil {
			return nil, &apperrors.DatabaseError{Operation: "scan leaderboard entry", Err: err}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.DatabaseError{Operation: "iterate leaderboard rows", Err: err}
	}

	return entries, nil
}

// GetPointHistory returns a user's point entries, newest first.
func (s *LedgerStoreImpl) GetPointHistory(username string) ([]PointEntry, error) {
	if _, err := s.GetUser(username); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, username, type, amount, created_at
		FROM point_entries
		WHERE username = $1
		ORDER BY created_at DESC, id DESC`, username)
	if err != nil {
		return nil, &apperrors.DatabaseError{Operation: "query point history", Err: err}
	}
	defer rows.Close()

	var history []PointEntry
	for rows.Next() {
		var entry PointEntry
		if err := rows.Scan(&entry.ID, &entry.Username, &entry.Type, &entry.Amount, &entry.Timestamp); err != nil {
			return nil, &apperrors.DatabaseError{Operation: "scan point entry", Err: err}
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.DatabaseError{Operation: "iterate point entries", Err: err}
	}

	return history, nil
}

func (s *LedgerStoreImpl) Close() error {
	return s.db.Close()
}

// RunMigrations brings the schema up to date from the given source URL.
func RunMigrations(db *sql.DB, sourceURL string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return &apperrors.DatabaseError{Operation: "create postgres driver", Err: err}
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return &apperrors.DatabaseError{Operation: "create migrate instance", Err: err}
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return &apperrors.DatabaseError{Operation: "sync database schema", Err: err}
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
