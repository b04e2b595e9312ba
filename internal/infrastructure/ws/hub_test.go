package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/shared"
	"github.com/tradewiser/backend/internal/infrastructure/config"
)

func testHub(t *testing.T) (*Hub, context.CancelFunc) {
	hub := NewHub(config.WSConfig{
		WriteTimeout:   time.Second,
		PingInterval:   time.Second,
		SendBufferSize: 8,
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

// dialClient connects a websocket client with the given user identity
// and returns the client-side connection.
func dialClient(t *testing.T, hub *Hub, userID uuid.UUID) *websocket.Conn {
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		NewClient(hub, conn, userID).Serve()
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Wait for the hub to register the connection
	require.Eventually(t, func() bool {
		return hub.ClientCount() >= 1
	}, time.Second, 10*time.Millisecond)

	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHub_Broadcast(t *testing.T) {
	hub, cancel := testHub(t)
	defer cancel()

	conn := dialClient(t, hub, uuid.New())

	hub.Broadcast("receipt.issued", map[string]string{"number": "eWR-20260830-A1B2C3"})

	msg := readMessage(t, conn)
	assert.Equal(t, "receipt.issued", msg.Type)
	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "eWR-20260830-A1B2C3", payload["number"])
}

func TestHub_NotifyTargetsSingleUser(t *testing.T) {
	hub, cancel := testHub(t)
	defer cancel()

	ownerID := uuid.New()
	ownerConn := dialClient(t, hub, ownerID)
	otherConn := dialClient(t, hub, uuid.New())

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	hub.Notify(ownerID, "loan.disbursed", map[string]string{"status": "active"})

	msg := readMessage(t, ownerConn)
	assert.Equal(t, "loan.disbursed", msg.Type)

	// The other client must not receive the targeted message
	require.NoError(t, otherConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := otherConn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_RunningFollowsLifecycle(t *testing.T) {
	hub := NewHub(config.WSConfig{}, zap.NewNop())
	assert.False(t, hub.Running())

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	require.Eventually(t, hub.Running, time.Second, 10*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		return !hub.Running()
	}, time.Second, 10*time.Millisecond)
}

func TestHub_RejectsRegistrationWhenStopped(t *testing.T) {
	hub := NewHub(config.WSConfig{SendBufferSize: 8}, zap.NewNop())
	hub.Stop()

	accepted := make(chan bool, 1)
	go func() {
		client := &Client{hub: hub, userID: uuid.New(), send: make(chan []byte, 8)}
		accepted <- client.Serve()
	}()

	select {
	case ok := <-accepted:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("registration against a stopped hub did not return")
	}
}

type stubEvent struct {
	shared.BaseDomainEvent
}

func TestEventForwarder_EventTypes(t *testing.T) {
	forwarder := NewEventForwarder(NewHub(config.WSConfig{}, zap.NewNop()))

	types := forwarder.EventTypes()
	assert.Contains(t, types, "process.stage_changed")
	assert.Contains(t, types, "receipt.issued")
	assert.Contains(t, types, "loan.disbursed")
	assert.Contains(t, types, "payment.completed")
}

func TestEventForwarder_BroadcastsUnknownEvents(t *testing.T) {
	hub, cancel := testHub(t)
	defer cancel()
	forwarder := NewEventForwarder(hub)

	conn := dialClient(t, hub, uuid.New())

	evt := &stubEvent{BaseDomainEvent: shared.NewBaseDomainEvent("warehouse.created", "Warehouse", uuid.New())}
	require.NoError(t, forwarder.Handle(context.Background(), evt))

	msg := readMessage(t, conn)
	assert.Equal(t, "warehouse.created", msg.Type)
}
