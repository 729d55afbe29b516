package server

import (
	"context"
	"errors"
	"sync"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/feltworks/casino/internal/cards"
	"github.com/feltworks/casino/internal/poker"
)

// Broadcaster fans a message out to every connected client.
type Broadcaster interface {
	Broadcast(msg *Message)
}

// Room runs one poker table: scripted seats from the config plus at
// most one network seat a client can claim. It subscribes to the
// table's event bus and mirrors every transition to clients as full
// snapshots.
type Room struct {
	cfg         *Config
	logger      *log.Logger
	broadcaster Broadcaster
	table       *poker.Table
	session     *poker.Session
	human       *NetworkAgent
	humanSeat   int
	ctx         context.Context
	cancel      context.CancelFunc

	mu      sync.Mutex
	playing bool
	last    poker.Snapshot
}

// NewRoom builds the table and session described by the config.
func NewRoom(cfg *Config, logger *log.Logger, rng *rand.Rand, broadcaster Broadcaster, opts ...poker.SessionOption) (*Room, error) {
	names := make([]string, len(cfg.Table.Seats))
	for i, seat := range cfg.Table.Seats {
		names[i] = seat.Name
	}

	table, err := poker.NewTable(logger, rng, names, cfg.Table.SmallBlind, cfg.Table.BigBlind,
		poker.WithUniformChips(cfg.Table.BuyIn))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	room := &Room{
		cfg:         cfg,
		logger:      logger.WithPrefix("room"),
		broadcaster: broadcaster,
		table:       table,
		humanSeat:   -1,
		ctx:         ctx,
		cancel:      cancel,
	}

	agents := make(map[int]poker.Agent, len(cfg.Table.Seats))
	for i, seat := range cfg.Table.Seats {
		if seat.Skill == SkillHuman {
			room.humanSeat = i
			room.human = NewNetworkAgent(i, cfg.Table.TurnSeconds, logger)
			agents[i] = room.human
			continue
		}
		skill, err := poker.ParseSkill(seat.Skill)
		if err != nil {
			cancel()
			return nil, err
		}
		agents[i] = poker.NewScriptedAgent(skill, rng)
	}

	sessionOpts := append([]poker.SessionOption{poker.WithTurnSeconds(cfg.Table.TurnSeconds)}, opts...)
	session, err := poker.NewSession(table, agents, logger, sessionOpts...)
	if err != nil {
		cancel()
		return nil, err
	}
	room.session = session

	table.Events().Subscribe(room)
	return room, nil
}

// Close aborts any hand in progress.
func (r *Room) Close() {
	r.cancel()
}

// Table returns the room's table.
func (r *Room) Table() *poker.Table { return r.table }

// Join claims the network seat for a connection. The seat keeps its
// configured name when the client sends none.
func (r *Room) Join(conn *Connection, name string) (int, poker.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.humanSeat < 0 {
		return 0, poker.Snapshot{}, errors.New("every seat at this table is scripted")
	}
	if r.human.Attached() {
		return 0, poker.Snapshot{}, errors.New("the seat is already taken")
	}
	if name != "" && !r.playing {
		r.table.Players()[r.humanSeat].Name = name
	}
	r.human.Attach(conn)
	return r.humanSeat, r.snapshotLocked(), nil
}

// Leave releases the network seat if this connection holds it. A hand
// in progress keeps running; the turn clock folds the empty seat.
func (r *Room) Leave(conn *Connection) {
	if r.human != nil && r.human.connection() == conn {
		r.human.Detach()
	}
}

// StartHand plays one hand asynchronously. Events reach clients through
// the broadcaster as the hand unfolds.
func (r *Room) StartHand() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.playing {
		return errors.New("a hand is already in progress")
	}
	if r.humanSeat >= 0 && !r.human.Attached() {
		return errors.New("join the table before starting a hand")
	}

	r.playing = true
	go r.runHand()
	return nil
}

func (r *Room) runHand() {
	defer func() {
		r.mu.Lock()
		r.playing = false
		r.mu.Unlock()
	}()

	if _, err := r.session.PlayHand(r.ctx); err != nil {
		r.logger.Error("Hand aborted", "error", err)
		r.broadcastError("hand_aborted", err.Error())
	}
}

// HandleAction routes a client decision to the pending turn.
func (r *Room) HandleAction(conn *Connection, data ActionData) error {
	if r.human == nil || r.human.connection() != conn {
		return errors.New("you are not seated at the table")
	}
	action, ok := poker.ParseAction(data.Action)
	if !ok {
		return errors.New("unknown action " + data.Action)
	}
	r.human.HandleDecision(poker.Decision{Action: action, Amount: data.Amount})
	return nil
}

// Playing reports whether a hand is currently running.
func (r *Room) Playing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing
}

// snapshotLocked reads table state only when no hand is mutating it;
// mid-hand it serves the snapshot from the latest event.
func (r *Room) snapshotLocked() poker.Snapshot {
	if r.playing {
		return r.last
	}
	return r.table.Snapshot()
}

// OnEvent implements poker.Subscriber on the session goroutine.
func (r *Room) OnEvent(event poker.Event) {
	switch e := event.(type) {
	case poker.HandStartEvent:
		r.remember(e.Snapshot)
		r.broadcastSnapshot(event.EventType(), e.Snapshot)
		r.sendHoleCards(e)
	case poker.PlayerActionEvent:
		r.remember(e.Snapshot)
		r.broadcastSnapshot(event.EventType(), e.Snapshot)
	case poker.PhaseChangeEvent:
		r.remember(e.Snapshot)
		r.broadcastSnapshot(event.EventType(), e.Snapshot)
	case poker.TurnStartEvent:
		r.remember(e.Snapshot)
		r.broadcastSnapshot(event.EventType(), e.Snapshot)
	case poker.HandEndEvent:
		r.remember(e.Snapshot)
		r.broadcastHandEnd(e)
	}
}

func (r *Room) remember(snapshot poker.Snapshot) {
	r.mu.Lock()
	r.last = snapshot
	r.mu.Unlock()
}

func (r *Room) broadcastSnapshot(eventType poker.EventType, snapshot poker.Snapshot) {
	msg, err := NewMessage(MessageTypeSnapshot, SnapshotData{Event: eventType, Snapshot: snapshot})
	if err != nil {
		r.logger.Error("Failed to encode snapshot", "error", err)
		return
	}
	r.broadcaster.Broadcast(msg)
}

func (r *Room) broadcastHandEnd(e poker.HandEndEvent) {
	data := HandEndData{
		HandID:     e.HandID,
		WinnerSeat: e.Winner.Seat,
		WinnerName: e.Winner.Name,
		Amount:     e.Winner.Amount,
		Showdown:   e.Showdown,
		Snapshot:   e.Snapshot,
	}
	if e.Showdown {
		data.Category = e.Winner.Category.String()
	}
	msg, err := NewMessage(MessageTypeHandEnd, data)
	if err != nil {
		r.logger.Error("Failed to encode hand end", "error", err)
		return
	}
	r.broadcaster.Broadcast(msg)
}

// sendHoleCards delivers the network seat's private cards; they never
// appear in broadcast snapshots.
func (r *Room) sendHoleCards(e poker.HandStartEvent) {
	if r.human == nil {
		return
	}
	conn := r.human.connection()
	if conn == nil {
		return
	}
	player := r.table.Players()[r.humanSeat]
	msg, err := NewMessage(MessageTypeHandStart, HandStartData{
		HandID:     e.HandID,
		Seat:       r.humanSeat,
		Hole:       append([]cards.Card(nil), player.Hole...),
		SmallBlind: e.SmallBlind,
		BigBlind:   e.BigBlind,
		Snapshot:   e.Snapshot,
	})
	if err != nil {
		r.logger.Error("Failed to encode hand start", "error", err)
		return
	}
	if err := conn.SendMessage(msg); err != nil {
		r.logger.Debug("Failed to send hole cards", "error", err)
	}
}

func (r *Room) broadcastError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		return
	}
	r.broadcaster.Broadcast(msg)
}
