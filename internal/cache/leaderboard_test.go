package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/py-dev-nandini-12/tier-system/internal/db"
	apperrors "github.com/py-dev-nandini-12/tier-system/internal/errors"
	"github.com/py-dev-nandini-12/tier-system/internal/tier"
)

func testSnapshot() []db.LeaderboardEntry {
	return []db.LeaderboardEntry{
		{Username: "alice", Points: 110, Tier: tier.Gold},
		{Username: "bob", Points: 60, Tier: tier.Silver},
	}
}

func setupTestCache(t *testing.T) (*Leaderboard, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	return NewLeaderboardWithClient(client, DefaultKey, time.Hour), mock
}

func TestReadHit(t *testing.T) {
	lb, mock := setupTestCache(t)

	raw, err := json.Marshal(testSnapshot())
	require.NoError(t, err)
	mock.ExpectGet(DefaultKey).SetVal(string(raw))

	entries, ok := lb.Read(context.Background())

	assert.True(t, ok)
	assert.Equal(t, testSnapshot(), entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadMiss(t *testing.T) {
	lb, mock := setupTestCache(t)

	mock.ExpectGet(DefaultKey).RedisNil()

	entries, ok := lb.Read(context.Background())

	assert.False(t, ok)
	assert.Nil(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A payload that does not decode as the snapshot schema is a miss, never an
// error and never anything resembling evaluation of the content.
func TestReadCorruptPayloadIsMiss(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{"not JSON at all", "[<User alice 110 Gold>]"},
		{"truncated JSON", `[{"username":"alice","poi`},
		{"wrong shape", `{"username":"alice"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lb, mock := setupTestCache(t)
			mock.ExpectGet(DefaultKey).SetVal(tc.payload)

			entries, ok := lb.Read(context.Background())

			assert.False(t, ok)
			assert.Nil(t, entries)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReadRedisDownIsMiss(t *testing.T) {
	lb, mock := setupTestCache(t)

	mock.ExpectGet(DefaultKey).SetErr(fmt.Errorf("connection refused"))

	_, ok := lb.Read(context.Background())

	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteRoundTrip(t *testing.T) {
	lb, mock := setupTestCache(t)

	raw, err := json.Marshal(testSnapshot())
	require.NoError(t, err)

	mock.ExpectSet(DefaultKey, raw, time.Hour).SetVal("OK")
	mock.ExpectGet(DefaultKey).SetVal(string(raw))

	require.NoError(t, lb.Write(context.Background(), testSnapshot()))

	entries, ok := lb.Read(context.Background())
	assert.True(t, ok)
	assert.Equal(t, testSnapshot(), entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteFailureIsCacheError(t *testing.T) {
	lb, mock := setupTestCache(t)

	raw, err := json.Marshal(testSnapshot())
	require.NoError(t, err)
	mock.ExpectSet(DefaultKey, raw, time.Hour).SetErr(fmt.Errorf("connection refused"))

	err = lb.Write(context.Background(), testSnapshot())

	assert.IsType(t, &apperrors.CacheError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate(t *testing.T) {
	lb, mock := setupTestCache(t)

	mock.ExpectDel(DefaultKey).SetVal(1)

	assert.NoError(t, lb.Invalidate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateThenMiss(t *testing.T) {
	lb, mock := setupTestCache(t)

	mock.ExpectDel(DefaultKey).SetVal(1)
	mock.ExpectGet(DefaultKey).RedisNil()

	require.NoError(t, lb.Invalidate(context.Background()))

	_, ok := lb.Read(context.Background())
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
