// Package chathub multiplexes room-scoped socket events: join/leave,
// message broadcast, typing indicators. One Hub exists per process; it is
// constructed by the entry point and injected where needed.
package chathub

import (
	"log"

	"civicvoice/backend/internal/models"
)

// InboundEvent pairs a decoded wire event with the connection it came from.
type InboundEvent struct {
	Client Client
	Event  models.Event
}

// Hub tracks connections and their room membership and fans events out.
// All state is owned by the Run goroutine; other goroutines talk to it
// through the channels only.
//
// Delivery is in-process: without a backplane, clients connected to another
// server instance never see these events. Room membership here is socket
// group membership; the persistent participant rows are managed separately
// by the REST layer, and a dropped connection never touches them.
type Hub struct {
	clients map[Client]bool
	// rooms maps room id -> connections currently joined to it. A connection
	// can be in several rooms at once.
	rooms map[uint]map[Client]bool

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventCh      chan InboundEvent

	// RemoteCh receives events republished by another instance through the
	// optional backplane. Nil backplane means the channel stays silent.
	RemoteCh chan models.Event

	backplane *Backplane
}

// NewHub constructs the hub. Pass a nil backplane for single-node delivery.
func NewHub(backplane *Backplane) *Hub {
	return &Hub{
		clients:      make(map[Client]bool),
		rooms:        make(map[uint]map[Client]bool),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventCh:      make(chan InboundEvent),
		RemoteCh:     make(chan models.Event),
		backplane:    backplane,
	}
}

// Run is the hub's main loop. Start it once, in its own goroutine.
func (h *Hub) Run() {
	if h.backplane != nil {
		h.backplane.StartListener(h.RemoteCh)
	}

	for {
		select {
		case client := <-h.RegisterCh:
			h.clients[client] = true

		case client := <-h.UnregisterCh:
			h.removeClient(client)

		case inbound := <-h.EventCh:
			h.dispatch(inbound.Client, inbound.Event)

		case event := <-h.RemoteCh:
			// Arrived via the backplane from another instance; deliver
			// locally without republishing.
			h.broadcast(event.RoomID, nil, event)
		}
	}
}

// removeClient drops the connection from every room set and closes it.
// Participant rows keep their leftAt untouched; leaving a room is only ever
// an explicit action.
func (h *Hub) removeClient(client Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for roomID, members := range h.rooms {
		if members[client] {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	client.Close()
}

func (h *Hub) dispatch(client Client, event models.Event) {
	userID := client.GetUserID()

	switch event.Event {
	case models.EventJoinRoom:
		members, ok := h.rooms[event.RoomID]
		if !ok {
			members = make(map[Client]bool)
			h.rooms[event.RoomID] = members
		}
		members[client] = true
		h.broadcast(event.RoomID, client, models.Event{
			Event:  models.EventUserConnected,
			RoomID: event.RoomID,
			UserID: userID,
		})

	case models.EventLeaveRoom:
		if members, ok := h.rooms[event.RoomID]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, event.RoomID)
			}
		}
		h.broadcast(event.RoomID, client, models.Event{
			Event:  models.EventUserDisconnected,
			RoomID: event.RoomID,
			UserID: userID,
		})

	case models.EventSendMessage:
		// Fan out to everyone in the room, sender included. Persistence
		// happens over REST before the client emits; the two steps are not
		// atomic with each other.
		out := models.Event{
			Event:   models.EventReceiveMessage,
			RoomID:  event.RoomID,
			UserID:  userID,
			Message: event.Message,
		}
		h.broadcast(event.RoomID, nil, out)
		h.publish(out)

	case models.EventTyping:
		h.broadcast(event.RoomID, client, models.Event{
			Event:  models.EventUserTyping,
			RoomID: event.RoomID,
			UserID: userID,
		})

	case models.EventStopTyping:
		h.broadcast(event.RoomID, client, models.Event{
			Event:  models.EventUserStopTyping,
			RoomID: event.RoomID,
			UserID: userID,
		})

	default:
		log.Printf("hub: ignoring unknown event %q from user %d", event.Event, userID)
	}
}

// broadcast delivers the event to every connection in the room, skipping
// exclude when non-nil. A client whose send buffer is full is dropped.
func (h *Hub) broadcast(roomID uint, exclude Client, event models.Event) {
	for client := range h.rooms[roomID] {
		if client == exclude {
			continue
		}
		select {
		case client.GetSendChannel() <- event:
		default:
			h.removeClient(client)
		}
	}
}

func (h *Hub) publish(event models.Event) {
	if h.backplane == nil {
		return
	}
	if err := h.backplane.Publish(event); err != nil {
		log.Printf("hub: backplane publish failed: %v", err)
	}
}
