package server

import (
	"encoding/json"
	"time"

	"github.com/feltworks/casino/internal/cards"
	"github.com/feltworks/casino/internal/poker"
)

// MessageType identifies a WebSocket message.
type MessageType string

const (
	// Client to server messages
	MessageTypeJoin      MessageType = "join"
	MessageTypeStartHand MessageType = "start_hand"
	MessageTypeAction    MessageType = "action"

	// Server to client messages
	MessageTypeJoined         MessageType = "joined"
	MessageTypeHandStart      MessageType = "hand_start"
	MessageTypeSnapshot       MessageType = "snapshot"
	MessageTypeActionRequired MessageType = "action_required"
	MessageTypeHandEnd        MessageType = "hand_end"
	MessageTypeError          MessageType = "error"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}

// Message is the WebSocket envelope shared by both directions.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type JoinData struct {
	Name string `json:"name"`
}

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Server → Client Messages

type JoinedData struct {
	Seat     int            `json:"seat"`
	Name     string         `json:"name"`
	Snapshot poker.Snapshot `json:"snapshot"`
}

// HandStartData carries the joining seat's private hole cards; snapshots
// never include them.
type HandStartData struct {
	HandID     string         `json:"handId"`
	Seat       int            `json:"seat"`
	Hole       []cards.Card   `json:"hole"`
	SmallBlind int            `json:"smallBlind"`
	BigBlind   int            `json:"bigBlind"`
	Snapshot   poker.Snapshot `json:"snapshot"`
}

// SnapshotData is sent after every engine event so clients can render
// without tracking deltas.
type SnapshotData struct {
	Event    poker.EventType `json:"event"`
	Snapshot poker.Snapshot  `json:"snapshot"`
}

type ActionRequiredData struct {
	Seat           int          `json:"seat"`
	Hole           []cards.Card `json:"hole"`
	ToCall         int          `json:"toCall"`
	MinRaise       int          `json:"minRaise"`
	Chips          int          `json:"chips"`
	Pot            int          `json:"pot"`
	ValidActions   []string     `json:"validActions"`
	TimeoutSeconds int          `json:"timeoutSeconds"`
}

type HandEndData struct {
	HandID     string         `json:"handId"`
	WinnerSeat int            `json:"winnerSeat"`
	WinnerName string         `json:"winnerName"`
	Amount     int            `json:"amount"`
	Category   string         `json:"category,omitempty"`
	Showdown   bool           `json:"showdown"`
	Snapshot   poker.Snapshot `json:"snapshot"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// validActionsFor lists the legal action names for a turn view.
func validActionsFor(view poker.TurnView) []string {
	actions := make([]string, 0, 4)
	if view.ToCall() == 0 {
		actions = append(actions, poker.Check.String())
	} else {
		actions = append(actions, poker.Call.String())
	}
	if view.Chips > view.ToCall() {
		actions = append(actions, poker.Raise.String())
	}
	actions = append(actions, poker.Fold.String())
	return actions
}
