package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/feltworks/casino/internal/poker"
)

// HumanAgent is the poker.Agent for the seat the terminal player
// controls. Decide posts a prompt into the Bubble Tea program and
// blocks until the player submits or the turn clock cancels the
// context.
type HumanAgent struct {
	seconds   int
	decisions chan poker.Decision

	mu   sync.RWMutex
	send func(tea.Msg)
}

// NewHumanAgent creates an agent whose prompts advertise the given
// countdown length.
func NewHumanAgent(seconds int) *HumanAgent {
	return &HumanAgent{
		seconds:   seconds,
		decisions: make(chan poker.Decision, 1),
	}
}

// SetSend wires the agent to a running program's Send.
func (a *HumanAgent) SetSend(send func(tea.Msg)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.send = send
}

func (a *HumanAgent) post(msg tea.Msg) {
	a.mu.RLock()
	send := a.send
	a.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// Decide implements poker.Agent.
func (a *HumanAgent) Decide(ctx context.Context, view poker.TurnView) (poker.Decision, error) {
	// Discard a decision left over from a turn that timed out.
	select {
	case <-a.decisions:
	default:
	}

	a.post(promptMsg{view: view, seconds: a.seconds})

	select {
	case <-ctx.Done():
		a.post(promptDoneMsg{})
		return poker.Decision{}, ctx.Err()
	case decision := <-a.decisions:
		return decision, nil
	}
}

// DecisionRejected shows the player why the last choice was refused; a
// new prompt follows while the same countdown keeps running.
func (a *HumanAgent) DecisionRejected(reason string) {
	a.post(rejectMsg{reason: reason})
}

// Submit hands the player's choice to a pending Decide. Choices made
// with no turn pending are dropped.
func (a *HumanAgent) Submit(decision poker.Decision) {
	select {
	case a.decisions <- decision:
	default:
	}
}
