package signal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	router "github.com/dkeye/Parley/internal/adapters/http"
	"github.com/dkeye/Parley/internal/app"
	"github.com/dkeye/Parley/internal/config"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	cfg := &config.Config{
		Mode:       "test",
		StaticPath: t.TempDir(),
		ReadLimit:  32768,
		PingPeriod: 50 * time.Second,
		SendBuffer: 32,
		Secret:     "test-secret",
	}
	coord := app.NewCoordinator(app.NewRegistry(), app.NewDirectory())
	srv := httptest.NewServer(router.SetupRouter(context.Background(), cfg, coord))
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/signal"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func recvEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m map[string]any
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func TestPingPong(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	sendEvent(t, conn, map[string]any{"type": "ping"})
	assert.Equal(t, "pong", recvEvent(t, conn)["type"])
}

func TestUnknownEventTypeIsIgnored(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	sendEvent(t, conn, map[string]any{"type": "no-such-event"})
	// The connection stays healthy.
	sendEvent(t, conn, map[string]any{"type": "ping"})
	assert.Equal(t, "pong", recvEvent(t, conn)["type"])
}

func TestJoinUnknownRoom(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	sendEvent(t, conn, map[string]any{"type": "join-room", "username": "bob", "roomCode": "zzzzzz"})
	ev := recvEvent(t, conn)
	assert.Equal(t, "room-error", ev["type"])
	assert.Equal(t, "Room not found. Please check the room code.", ev["error"])
}

func TestCreateJoinMessageDisconnectFlow(t *testing.T) {
	srv, url := newTestServer(t)
	alice := dial(t, url)
	bob := dial(t, url)

	sendEvent(t, alice, map[string]any{"type": "create-room", "username": "alice", "roomName": ""})
	created := recvEvent(t, alice)
	require.Equal(t, "room-created", created["type"])
	assert.Equal(t, "alice's Room", created["roomName"])
	code := created["roomCode"].(string)
	require.Len(t, code, 6)
	count := recvEvent(t, alice)
	require.Equal(t, "user-count", count["type"])
	assert.EqualValues(t, 1, count["count"])

	// The room shows up on the listing endpoint.
	resp, err := srv.Client().Get(srv.URL + "/api/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing struct {
		Rooms []struct {
			Code        string `json:"code"`
			Name        string `json:"name"`
			MemberCount int    `json:"member_count"`
		} `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	require.Len(t, listing.Rooms, 1)
	assert.Equal(t, code, listing.Rooms[0].Code)
	assert.Equal(t, 1, listing.Rooms[0].MemberCount)

	sendEvent(t, bob, map[string]any{"type": "join-room", "username": "bob", "roomCode": code})
	joined := recvEvent(t, bob)
	require.Equal(t, "room-joined", joined["type"])
	assert.Equal(t, code, joined["roomCode"])
	bobCount := recvEvent(t, bob)
	require.Equal(t, "user-count", bobCount["type"])
	assert.EqualValues(t, 2, bobCount["count"])

	userJoined := recvEvent(t, alice)
	require.Equal(t, "user-joined", userJoined["type"])
	assert.Equal(t, "bob", userJoined["username"])
	count = recvEvent(t, alice)
	require.Equal(t, "user-count", count["type"])
	assert.EqualValues(t, 2, count["count"])

	sendEvent(t, alice, map[string]any{"type": "message", "message": "hi"})
	for _, conn := range []*websocket.Conn{alice, bob} {
		msg := recvEvent(t, conn)
		require.Equal(t, "message", msg["type"])
		assert.Equal(t, "alice", msg["username"])
		assert.Equal(t, "hi", msg["message"])
		assert.NotEmpty(t, msg["timestamp"])
	}

	// Bob drops; alice sees an ordinary departure.
	require.NoError(t, bob.Close())
	left := recvEvent(t, alice)
	require.Equal(t, "user-left", left["type"])
	assert.Equal(t, "bob", left["username"])
	count = recvEvent(t, alice)
	require.Equal(t, "user-count", count["type"])
	assert.EqualValues(t, 1, count["count"])
}

func TestExplicitLeave(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	sendEvent(t, conn, map[string]any{"type": "create-room", "username": "alice", "roomName": "solo"})
	created := recvEvent(t, conn)
	require.Equal(t, "room-created", created["type"])
	code := created["roomCode"].(string)
	require.Equal(t, "user-count", recvEvent(t, conn)["type"])

	sendEvent(t, conn, map[string]any{"type": "leave-room"})
	assert.Equal(t, "room-left", recvEvent(t, conn)["type"])

	// The emptied room is gone; rejoining its code fails.
	sendEvent(t, conn, map[string]any{"type": "join-room", "username": "alice", "roomCode": code})
	assert.Equal(t, "room-error", recvEvent(t, conn)["type"])
}
