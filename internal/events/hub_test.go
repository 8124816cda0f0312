package events_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/rv-planner/internal/events"
	"github.com/pkordes/rv-planner/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func receive(t *testing.T, c *events.Client) events.Event {
	t.Helper()
	select {
	case msg := <-c.Send:
		var ev events.Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
		return events.Event{}
	}
}

func assertSilent(t *testing.T, c *events.Client) {
	t.Helper()
	select {
	case msg := <-c.Send:
		t.Fatalf("unexpected event %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishReachesOwnerOnly(t *testing.T) {
	hub := events.NewHub(nil, discardLogger())
	mine := hub.Register("alice")
	defer hub.Unregister(mine)
	theirs := hub.Register("bob")
	defer hub.Unregister(theirs)

	hub.Publish(context.Background(), "alice", "destinations")

	ev := receive(t, mine)
	assert.Equal(t, events.TypeCollectionChanged, ev.Type)
	assert.Equal(t, "destinations", ev.Collection)
	assertSilent(t, theirs)
}

func TestHub_UnregisterClosesOnce(t *testing.T) {
	hub := events.NewHub(nil, discardLogger())
	c := hub.Register("alice")
	assert.Equal(t, 1, hub.Clients("alice"))

	hub.Unregister(c)
	hub.Unregister(c)

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Zero(t, hub.Clients("alice"))
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := events.NewHub(nil, discardLogger())
	c := hub.Register("alice")
	defer hub.Unregister(c)

	done := make(chan struct{})
	go func() {
		for range 100 {
			hub.Publish(context.Background(), "alice", "folders")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow client")
	}
}

func TestHub_RedisRelaysBetweenInstances(t *testing.T) {
	mr, client := testutil.NewRedis(t)
	a := events.NewHub(client, discardLogger())
	b := events.NewHub(testutil.RedisClient(t, mr), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = a.Run(ctx) }()
	go func() { _ = b.Run(ctx) }()

	onA := a.Register("alice")
	defer a.Unregister(onA)
	onB := b.Register("alice")
	defer b.Unregister(onB)

	require.Eventually(t, func() bool {
		return mr.PubSubNumPat() == 2
	}, time.Second, 10*time.Millisecond, "both hubs subscribed")

	a.Publish(ctx, "alice", "destinations")

	assert.Equal(t, "destinations", receive(t, onA).Collection)
	assert.Equal(t, "destinations", receive(t, onB).Collection)
	assertSilent(t, onA)
}

func TestHub_RunWithoutRedisStopsWithContext(t *testing.T) {
	hub := events.NewHub(nil, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- hub.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

// ---- websocket -------------------------------------------------------------

func ownerFromQuery(r *http.Request) (string, bool) {
	u := r.URL.Query().Get("user")
	return u, u != ""
}

func TestHandler_StreamsEvents(t *testing.T) {
	hub := events.NewHub(nil, discardLogger())
	srv := httptest.NewServer(hub.Handler(ownerFromQuery, []string{"http://localhost:5173"}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=alice"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	require.Eventually(t, func() bool { return hub.Clients("alice") == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(context.Background(), "alice", "folders")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev events.Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "folders", ev.Collection)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients("alice") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHandler_RejectsMissingOwner(t *testing.T) {
	hub := events.NewHub(nil, discardLogger())
	srv := httptest.NewServer(hub.Handler(ownerFromQuery, nil))
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_RejectsForeignOrigin(t *testing.T) {
	hub := events.NewHub(nil, discardLogger())
	srv := httptest.NewServer(hub.Handler(ownerFromQuery, []string{"http://localhost:5173"}))
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/?user=alice", header)

	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
