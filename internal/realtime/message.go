// Package realtime pushes ledger events to connected clients. Each user listens on a
// room named after their user id; the server publishes to rooms through a Publisher.
package realtime

import (
	"context"
	"encoding/json"
)

// Inbound and outbound message types on the socket.
const (
	TypeJoinRoom   = "joinRoom"
	TypeLeaveRoom  = "leaveRoom"
	TypeJoinedRoom = "joinedRoom"
	TypeEvent      = "event"
	TypeError      = "error"
)

type Publisher interface {
	Publish(ctx context.Context, room, event string, payload any) error
}

// Message is the JSON frame exchanged with clients and relayed between instances.
type Message struct {
	Type    string          `json:"type"`
	Room    string          `json:"room,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func newEventMessage(room, event string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: TypeEvent, Room: room, Event: event, Payload: raw}, nil
}
