package models

import "encoding/json"

// Socket event names, shared between clients and the hub.
const (
	EventJoinRoom         = "join-room"
	EventLeaveRoom        = "leave-room"
	EventSendMessage      = "send-message"
	EventReceiveMessage   = "receive-message"
	EventTyping           = "typing"
	EventUserTyping       = "user-typing"
	EventStopTyping       = "stop-typing"
	EventUserStopTyping   = "user-stop-typing"
	EventUserConnected    = "user-connected"
	EventUserDisconnected = "user-disconnected"
)

// Event is the wire envelope for room-scoped socket traffic. Message carries
// the opaque client payload for send-message/receive-message; the hub relays
// it without inspecting it.
type Event struct {
	Event   string          `json:"event"`
	RoomID  uint            `json:"roomId"`
	UserID  uint            `json:"userId,omitempty"`
	Message json.RawMessage `json:"message,omitempty"`
}
