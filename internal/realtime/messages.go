package realtime

import (
	"encoding/json"

	"github.com/mcoot/playmoney/internal/model"
)

// MessageType tags every message exchanged over a live connection
type MessageType string

const (
	// Client to server
	MessageAuth           MessageType = "auth"
	MessageProposeEvent   MessageType = "proposeEvent"
	MessageProposeEndGame MessageType = "proposeEndGame"
	MessageHeartBeat      MessageType = "heartBeat"

	// Server to client
	MessageInitialEventArray MessageType = "initialEventArray"
	MessageNewEvent          MessageType = "newEvent"
	MessageGameEnd           MessageType = "gameEnd"
)

// Incoming is any message a client may send. Event is decoded separately so a
// malformed event is dropped without closing the connection.
type Incoming struct {
	Type      MessageType      `json:"type"`
	GameID    model.GameID     `json:"gameId,omitempty"`
	UserToken model.Credential `json:"userToken,omitempty"`
	Event     json.RawMessage  `json:"event,omitempty"`
}

// Outgoing is any message the server sends, as decoded by a client
type Outgoing struct {
	Type   MessageType   `json:"type"`
	Events []model.Event `json:"events,omitempty"`
	Event  *model.Event  `json:"event,omitempty"`
}

type initialEventArrayMessage struct {
	Type   MessageType   `json:"type"`
	Events []model.Event `json:"events"`
}

type newEventMessage struct {
	Type  MessageType `json:"type"`
	Event model.Event `json:"event"`
}

// Frame is an outgoing message encoded once and shared by every client
type Frame struct {
	Type MessageType
	Data []byte
}

// InitialEventArray builds the first frame a subscriber receives
func InitialEventArray(events []model.Event) (Frame, error) {
	if events == nil {
		events = []model.Event{}
	}
	return newFrame(MessageInitialEventArray, initialEventArrayMessage{Type: MessageInitialEventArray, Events: events})
}

// NewEvent builds the frame for one newly admitted event
func NewEvent(e model.Event) (Frame, error) {
	return newFrame(MessageNewEvent, newEventMessage{Type: MessageNewEvent, Event: e})
}

// GameEnd builds the terminal frame
func GameEnd() Frame {
	return Frame{Type: MessageGameEnd, Data: []byte(`{"type":"gameEnd"}`)}
}

func newFrame(t MessageType, v any) (Frame, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: t, Data: data}, nil
}
