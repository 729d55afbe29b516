package poker

import (
	"time"

	"github.com/feltworks/casino/internal/cards"
)

// EventType identifies a game event.
type EventType string

const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeHandEnd      EventType = "hand_end"
	EventTypePhaseChange  EventType = "phase_change"
	EventTypePlayerAction EventType = "player_action"
	EventTypeTurnStart    EventType = "turn_start"
)

// Event is anything the table emits. The engine itself never renders;
// presentation layers subscribe and consume these.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// SeatState is a per-seat view included in snapshots.
type SeatState struct {
	Name        string       `json:"name"`
	Seat        int          `json:"seat"`
	Chips       int          `json:"chips"`
	Bet         int          `json:"bet"`
	TotalBet    int          `json:"totalBet"`
	Folded      bool         `json:"folded"`
	AllIn       bool         `json:"allIn"`
	Hole        []cards.Card `json:"-"`
	TurnSeconds int          `json:"turnSeconds"`
}

// Snapshot is the full observable table state after a transition.
type Snapshot struct {
	HandID     string       `json:"handId"`
	Phase      Phase        `json:"phase"`
	Pot        int          `json:"pot"`
	CurrentBet int          `json:"currentBet"`
	Dealer     int          `json:"dealer"`
	SmallBlind int          `json:"smallBlind"`
	BigBlind   int          `json:"bigBlind"`
	ActiveSeat int          `json:"activeSeat"`
	Community  []cards.Card `json:"community"`
	Seats      []SeatState  `json:"seats"`
}

// HandStartEvent is published when blinds are posted and hole cards dealt.
type HandStartEvent struct {
	HandID     string
	SmallBlind int
	BigBlind   int
	Snapshot   Snapshot
	timestamp  time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published after a seat's action has been applied.
type PlayerActionEvent struct {
	Seat      int
	Name      string
	Action    Action
	Amount    int
	Auto      bool // true when the turn clock resolved the action
	Phase     Phase
	PotAfter  int
	Snapshot  Snapshot
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// PhaseChangeEvent is published when the hand advances to a new phase.
type PhaseChangeEvent struct {
	Phase     Phase
	Community []cards.Card
	Snapshot  Snapshot
	timestamp time.Time
}

func (e PhaseChangeEvent) EventType() EventType { return EventTypePhaseChange }
func (e PhaseChangeEvent) Timestamp() time.Time { return e.timestamp }

// TurnStartEvent is published when the action moves to a new seat.
type TurnStartEvent struct {
	Seat        int
	Name        string
	ToCall      int
	TurnSeconds int
	Snapshot    Snapshot
	timestamp   time.Time
}

func (e TurnStartEvent) EventType() EventType { return EventTypeTurnStart }
func (e TurnStartEvent) Timestamp() time.Time { return e.timestamp }

// WinnerInfo describes the recipient of the pot.
type WinnerInfo struct {
	Seat     int
	Name     string
	Amount   int
	Category Category // zero when the hand ended on folds
}

// HandEndEvent is published when the pot has been awarded.
type HandEndEvent struct {
	HandID    string
	Winner    WinnerInfo
	Showdown  bool
	Snapshot  Snapshot
	timestamp time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

// Subscriber receives game events.
type Subscriber interface {
	OnEvent(event Event)
}

// EventBus manages event publishing and subscription.
type EventBus interface {
	Subscribe(sub Subscriber)
	Unsubscribe(sub Subscriber)
	Publish(event Event)
}

type simpleEventBus struct {
	subscribers []Subscriber
}

// NewEventBus creates a synchronous in-memory event bus.
func NewEventBus() EventBus {
	return &simpleEventBus{}
}

func (b *simpleEventBus) Subscribe(sub Subscriber) {
	b.subscribers = append(b.subscribers, sub)
}

func (b *simpleEventBus) Unsubscribe(sub Subscriber) {
	for i, s := range b.subscribers {
		if s == sub {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			break
		}
	}
}

func (b *simpleEventBus) Publish(event Event) {
	for _, s := range b.subscribers {
		s.OnEvent(event)
	}
}
