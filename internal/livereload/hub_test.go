package livereload

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func dial(t *testing.T, srv *httptest.Server) (*websocket.Conn, *json.Decoder) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	dec := json.NewDecoder(conn)
	var hello Event
	require.NoError(t, dec.Decode(&hello))
	require.Equal(t, "hello", hello.Type)
	return conn, dec
}

func TestHub_Broadcast(t *testing.T) {
	// --- Arrange ---
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)

	_, first := dial(t, srv)
	_, second := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Len() == 2 }, time.Second, 10*time.Millisecond)

	// --- Act ---
	hub.Broadcast("core::iter::Extend")

	// --- Assert ---
	for _, dec := range []*json.Decoder{first, second} {
		var ev Event
		require.NoError(t, dec.Decode(&ev))
		assert.Equal(t, Event{Type: "reload", Trait: "core::iter::Extend"}, ev)
	}
}

func TestHub_ForgetsClosedPeers(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)

	conn, _ := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
}
