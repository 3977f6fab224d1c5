package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
	"github.com/tendant/simple-objects/pkg/simpleobjects/notify"
	ws "nhooyr.io/websocket"
)

func dialHub(t *testing.T, hub *notify.Hub) *ws.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, strings.Replace(server.URL, "http://", "ws://", 1), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(ws.StatusNormalClosure, "") })

	waitForClients(t, hub, 1)
	return conn
}

func waitForClients(t *testing.T, hub *notify.Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *ws.Conn) (string, json.RawMessage) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, frame, err := conn.Read(ctx)
	require.NoError(t, err)

	var envelope struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &envelope))
	return envelope.Event, envelope.Data
}

func TestBroadcastReachesConnectedClient(t *testing.T) {
	hub := notify.NewHub(zerolog.Nop())
	conn := dialHub(t, hub)

	hub.Broadcast("objectCreated", map[string]string{"title": "Chair"})

	event, data := readEvent(t, conn)
	assert.Equal(t, "objectCreated", event)
	assert.JSONEq(t, `{"title":"Chair"}`, string(data))
}

func TestBroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	hub := notify.NewHub(zerolog.Nop())

	done := make(chan struct{})
	go func() {
		hub.Broadcast("objectDeleted", map[string]string{"id": "x"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked with no clients connected")
	}
}

func TestObjectCreatedEventShape(t *testing.T) {
	hub := notify.NewHub(zerolog.Nop())
	conn := dialHub(t, hub)

	imageURL := "https://cdn.example.com/objects/1.jpg"
	record := &simpleobjects.ObjectRecord{
		ID:          uuid.New(),
		Title:       "Chair",
		Description: "A wooden chair",
		ImageURL:    &imageURL,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, hub.ObjectCreated(context.Background(), record))

	event, data := readEvent(t, conn)
	assert.Equal(t, notify.EventObjectCreated, event)

	var payload simpleobjects.ObjectCreatedEvent
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, record.ID, payload.ID)
	assert.Equal(t, "Chair", payload.Title)
	require.NotNil(t, payload.ImageURL)
	assert.Equal(t, imageURL, *payload.ImageURL)
}

func TestObjectDeletedEventShape(t *testing.T) {
	hub := notify.NewHub(zerolog.Nop())
	conn := dialHub(t, hub)

	objectID := uuid.New()
	require.NoError(t, hub.ObjectDeleted(context.Background(), objectID, time.Now().UTC()))

	event, data := readEvent(t, conn)
	assert.Equal(t, notify.EventObjectDeleted, event)

	var payload simpleobjects.ObjectDeletedEvent
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, objectID, payload.ID)
	assert.False(t, payload.DeletedAt.IsZero())
}

func TestClientDisconnectDeregisters(t *testing.T) {
	hub := notify.NewHub(zerolog.Nop())
	conn := dialHub(t, hub)

	conn.Close(ws.StatusNormalClosure, "")
	waitForClients(t, hub, 0)
}
