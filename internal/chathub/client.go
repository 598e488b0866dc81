package chathub

import "civicvoice/backend/internal/models"

// Client is the interface for one active socket connection. It abstracts the
// underlying transport so the hub can manage connections uniformly.
type Client interface {
	// GetUserID returns the authenticated user behind the connection.
	GetUserID() uint

	// GetSendChannel returns the channel the hub writes outbound events to.
	// It is a send-only channel from the hub's perspective.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's outbound channel, stopping its write pump.
	Close()
}
