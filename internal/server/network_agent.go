package server

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/feltworks/casino/internal/poker"
)

// NetworkAgent bridges a table seat to a WebSocket client. It implements
// poker.Agent: Decide prompts the attached client and blocks until the
// client answers or the session's turn clock cancels the context.
type NetworkAgent struct {
	seat           int
	timeoutSeconds int
	logger         *log.Logger

	mu        sync.RWMutex
	conn      *Connection
	decisions chan poker.Decision
}

// NewNetworkAgent creates an agent for the given seat with no client
// attached yet.
func NewNetworkAgent(seat, timeoutSeconds int, logger *log.Logger) *NetworkAgent {
	return &NetworkAgent{
		seat:           seat,
		timeoutSeconds: timeoutSeconds,
		logger:         logger.WithPrefix("netagent"),
		decisions:      make(chan poker.Decision, 1),
	}
}

// Attach hands the seat to a connection.
func (na *NetworkAgent) Attach(conn *Connection) {
	na.mu.Lock()
	defer na.mu.Unlock()
	na.conn = conn
}

// Detach releases the seat, typically on disconnect.
func (na *NetworkAgent) Detach() {
	na.mu.Lock()
	defer na.mu.Unlock()
	na.conn = nil
}

// Attached reports whether a client currently holds the seat.
func (na *NetworkAgent) Attached() bool {
	na.mu.RLock()
	defer na.mu.RUnlock()
	return na.conn != nil
}

func (na *NetworkAgent) connection() *Connection {
	na.mu.RLock()
	defer na.mu.RUnlock()
	return na.conn
}

// Decide implements poker.Agent. With no client attached it errors
// immediately so the session can auto-resolve the turn.
func (na *NetworkAgent) Decide(ctx context.Context, view poker.TurnView) (poker.Decision, error) {
	conn := na.connection()
	if conn == nil {
		return poker.Decision{}, errors.New("seat has no connected client")
	}

	// Discard a decision left over from a turn that timed out.
	select {
	case <-na.decisions:
	default:
	}

	prompt, err := NewMessage(MessageTypeActionRequired, ActionRequiredData{
		Seat:           view.Seat,
		Hole:           view.Hole,
		ToCall:         view.ToCall(),
		MinRaise:       view.MinRaise(),
		Chips:          view.Chips,
		Pot:            view.Pot,
		ValidActions:   validActionsFor(view),
		TimeoutSeconds: na.timeoutSeconds,
	})
	if err != nil {
		return poker.Decision{}, err
	}
	if err := conn.SendMessage(prompt); err != nil {
		return poker.Decision{}, err
	}

	select {
	case <-ctx.Done():
		return poker.Decision{}, ctx.Err()
	case decision := <-na.decisions:
		return decision, nil
	}
}

// DecisionRejected surfaces a refused action to the client. The turn
// stays open; a fresh action_required prompt follows.
func (na *NetworkAgent) DecisionRejected(reason string) {
	conn := na.connection()
	if conn == nil {
		return
	}
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: "invalid_action", Message: reason})
	if err != nil {
		return
	}
	_ = conn.SendMessage(msg)
}

// HandleDecision feeds a client decision to a pending Decide. Decisions
// arriving with no turn in progress are dropped.
func (na *NetworkAgent) HandleDecision(decision poker.Decision) {
	select {
	case na.decisions <- decision:
	default:
		na.logger.Debug("Dropping decision with no pending turn", "seat", na.seat)
	}
}
