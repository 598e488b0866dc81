package chathub_test

import (
	"sync"

	"civicvoice/backend/internal/models"
)

// mockClient is a test double for the chathub.Client interface. Close runs
// on the hub goroutine, so the closed flag is mutex-guarded.
type mockClient struct {
	userID uint
	send   chan models.Event

	mu     sync.Mutex
	closed bool
}

func newMockClient(userID uint) *mockClient {
	return &mockClient{
		userID: userID,
		// Buffered to prevent blocking in tests
		send: make(chan models.Event, 10),
	}
}

func (c *mockClient) GetUserID() uint                     { return c.userID }
func (c *mockClient) GetSendChannel() chan<- models.Event { return c.send }
func (c *mockClient) Run()                                {}

func (c *mockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *mockClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
