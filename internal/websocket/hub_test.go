package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id        string
	channelID int32
	messages  [][]byte
	mu        sync.Mutex
	closed    bool
}

func newMockClient(id string, channelID int32) *mockClient {
	return &mockClient{
		id:        id,
		channelID: channelID,
		messages:  make([][]byte, 0),
	}
}

func (m *mockClient) ID() string { return m.id }

func (m *mockClient) ChannelID() int32 { return m.channelID }

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) receivedMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.messages))
	copy(out, m.messages)
	return out
}

func waitForMessages(t *testing.T, client *mockClient, want int) [][]byte {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if msgs := client.receivedMessages(); len(msgs) >= want {
			return msgs
		}
		time.Sleep(time.Millisecond)
	}
	return client.receivedMessages()
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub()
	client := newMockClient("c1", 1)
	hub.Register(client)

	hub.Broadcast(1, PaymentRecorded(map[string]int{"id": 42}))

	msgs := waitForMessages(t, client, 1)
	require.Len(t, msgs, 1)
	assert.Contains(t, string(msgs[0]), `"type":"payment.created"`)
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	client := newMockClient("c1", 1)
	hub.Register(client)
	require.Equal(t, 1, hub.ClientCount(1))

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount(1))
}

func TestHub_BroadcastChannelIsolation(t *testing.T) {
	hub := NewHub()
	repClient := newMockClient("c1", 5)
	adminClient := newMockClient("c2", ChannelAdmin)
	hub.Register(repClient)
	hub.Register(adminClient)

	hub.Broadcast(5, PaymentRecorded(map[string]int{"id": 1}))

	waitForMessages(t, repClient, 1)
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, repClient.receivedMessages(), 1)
	assert.Len(t, adminClient.receivedMessages(), 0, "admin channel should not receive representative-scoped events")
}

func TestHub_TotalClientCount(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 5; i++ {
		hub.Register(newMockClient("admin-client", ChannelAdmin))
	}
	for i := 0; i < 3; i++ {
		hub.Register(newMockClient("rep-client", int32(i+1)))
	}
	assert.Equal(t, 4, hub.TotalClientCount(), "same client ID within a channel overwrites, distinct channels don't")
}

func TestHub_BroadcastToEmptyChannel(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() {
		hub.Broadcast(999, PaymentRecorded(nil))
	})
}
