package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/py-dev-nandini-12/tier-system/internal/db"
	"github.com/py-dev-nandini-12/tier-system/internal/tier"
)

func dialTestManager(t *testing.T, m *Manager) (*websocket.Conn, func()) {
	server := httptest.NewServer(http.HandlerFunc(m.HandleWebSocket))

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	// Give the server side a moment to finish registering the client.
	time.Sleep(100 * time.Millisecond)

	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func TestBroadcastLeaderboardUpdate(t *testing.T) {
	manager := NewManager()
	go manager.Run()

	conn, cleanup := dialTestManager(t, manager)
	defer cleanup()

	leaderboard := []db.LeaderboardEntry{
		{Username: "alice", Points: 110, Tier: tier.Gold},
		{Username: "bob", Points: 60, Tier: tier.Silver},
	}

	require.NoError(t, manager.BroadcastLeaderboardUpdate(leaderboard))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type        string                `json:"type"`
		Leaderboard []db.LeaderboardEntry `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))

	assert.Equal(t, "leaderboard_update", msg.Type)
	assert.Equal(t, leaderboard, msg.Leaderboard)
}

func TestBroadcastUserUpdate(t *testing.T) {
	manager := NewManager()
	go manager.Run()

	conn, cleanup := dialTestManager(t, manager)
	defer cleanup()

	user := db.User{Username: "alice", Points: 60, Tier: tier.Silver}
	require.NoError(t, manager.BroadcastUserUpdate(user))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string  `json:"type"`
		User db.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))

	assert.Equal(t, "user_update", msg.Type)
	assert.Equal(t, user, msg.User)
}

func TestBroadcastReachesAllClients(t *testing.T) {
	manager := NewManager()
	go manager.Run()

	first, cleanupFirst := dialTestManager(t, manager)
	defer cleanupFirst()
	second, cleanupSecond := dialTestManager(t, manager)
	defer cleanupSecond()

	leaderboard := []db.LeaderboardEntry{{Username: "alice", Points: 10, Tier: tier.Bronze}}
	require.NoError(t, manager.BroadcastLeaderboardUpdate(leaderboard))

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"alice"`)
	}
}
