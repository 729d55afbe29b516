package poker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// DefaultThinkDelay is the cosmetic pause before an automated seat acts.
const DefaultThinkDelay = time.Second

// Automated is implemented by agents whose turns resolve after a fixed
// think delay instead of a countdown.
type Automated interface {
	Automated() bool
}

// Automated marks ScriptedAgent turns as delay-resolved.
func (a *ScriptedAgent) Automated() bool { return true }

// RejectionNotifier is implemented by agents that can show the player why
// a decision was refused before the session asks again.
type RejectionNotifier interface {
	DecisionRejected(reason string)
}

// Session drives complete hands on a table: it asks the active seat's
// agent for a decision, runs the countdown for non-automated seats, and
// applies the result. Exactly one seat acts at a time.
type Session struct {
	table       *Table
	agents      map[int]Agent
	logger      *log.Logger
	clock       quartz.Clock
	turnClock   *TurnClock
	turnSeconds int
	thinkDelay  time.Duration
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock substitutes the wall clock, usually with quartz.NewMock.
func WithClock(clock quartz.Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// WithThinkDelay overrides the automated seats' cosmetic delay.
func WithThinkDelay(d time.Duration) SessionOption {
	return func(s *Session) { s.thinkDelay = d }
}

// WithTurnSeconds overrides the countdown length.
func WithTurnSeconds(seconds int) SessionOption {
	return func(s *Session) { s.turnSeconds = seconds }
}

// NewSession wires agents to seats. Every seat must have an agent.
func NewSession(table *Table, agents map[int]Agent, logger *log.Logger, opts ...SessionOption) (*Session, error) {
	for seat := range table.Players() {
		if agents[seat] == nil {
			return nil, fmt.Errorf("seat %d has no agent", seat)
		}
	}
	s := &Session{
		table:       table,
		agents:      agents,
		logger:      logger.WithPrefix("session"),
		clock:       quartz.NewReal(),
		turnSeconds: DefaultTurnSeconds,
		thinkDelay:  DefaultThinkDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.turnClock = NewTurnClock(s.clock, s.turnSeconds)
	return s, nil
}

// Table returns the session's table.
func (s *Session) Table() *Table { return s.table }

// HandResult summarises a completed hand.
type HandResult struct {
	HandID   string
	Winner   WinnerInfo
	Showdown bool
}

type resultCollector struct {
	result *HandResult
}

func (rc *resultCollector) OnEvent(event Event) {
	if end, ok := event.(HandEndEvent); ok {
		rc.result = &HandResult{HandID: end.HandID, Winner: end.Winner, Showdown: end.Showdown}
	}
}

// PlayHand runs one complete hand from deal to pot award.
func (s *Session) PlayHand(ctx context.Context) (*HandResult, error) {
	collector := &resultCollector{}
	s.table.Events().Subscribe(collector)
	defer s.table.Events().Unsubscribe(collector)

	if err := s.table.StartHand(); err != nil {
		return nil, err
	}

	for s.table.Phase().Betting() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		seat := s.table.ActiveSeat()
		if seat < 0 {
			return nil, errors.New("betting phase with no active seat")
		}

		if err := s.resolveTurn(ctx, seat); err != nil {
			return nil, err
		}

		if err := s.table.ValidateChipConservation(); err != nil {
			return nil, err
		}
	}

	if collector.result == nil {
		return nil, errors.New("hand completed without a result")
	}
	return collector.result, nil
}

// resolveTurn obtains and applies one seat's action: automated seats
// decide after the think delay, others race the countdown.
func (s *Session) resolveTurn(ctx context.Context, seat int) error {
	agent := s.agents[seat]
	view := s.table.ViewFor(seat)

	if a, ok := agent.(Automated); ok && a.Automated() {
		if err := s.wait(ctx, s.thinkDelay); err != nil {
			return err
		}
		decision, err := agent.Decide(ctx, view)
		if err != nil {
			s.logger.Error("agent failed, folding", "seat", seat, "error", err)
			return s.table.AutoAction(seat)
		}
		return s.applyWithFallback(seat, decision)
	}

	return s.resolveTimedTurn(ctx, seat, agent, view)
}

func (s *Session) resolveTimedTurn(ctx context.Context, seat int, agent Agent, view TurnView) error {
	countdown := s.turnClock.Start()
	defer countdown.Stop()

	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		decision Decision
		err      error
	}
	decided := make(chan outcome, 1)
	ask := func() {
		go func() {
			d, err := agent.Decide(turnCtx, view)
			decided <- outcome{decision: d, err: err}
		}()
	}
	ask()

	player := s.table.Players()[seat]
	player.TurnSeconds = s.turnClock.Seconds()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-countdown.Expired:
			cancel()
			s.logger.Info("turn expired", "seat", seat, "player", player.Name)
			return s.table.AutoAction(seat)

		case out := <-decided:
			if out.err != nil {
				s.logger.Error("agent failed, auto-resolving", "seat", seat, "error", out.err)
				return s.table.AutoAction(seat)
			}
			err := s.table.Apply(seat, out.decision.Action, out.decision.Amount)
			var invalid *InvalidActionError
			if errors.As(err, &invalid) {
				// An illegal choice changes nothing: the seat keeps the
				// turn, hears the reason and is asked again while the
				// countdown keeps running.
				s.logger.Warn("rejected action",
					"seat", seat, "action", out.decision.Action, "reason", invalid.Reason)
				if n, ok := agent.(RejectionNotifier); ok {
					n.DecisionRejected(invalid.Reason)
				}
				ask()
				continue
			}
			return err
		}
	}
}

// applyWithFallback applies a scripted agent's decision, degrading an
// illegal choice to the closest legal one rather than stalling the hand:
// an illegal check becomes a call, an illegal raise becomes a call,
// anything else folds.
func (s *Session) applyWithFallback(seat int, decision Decision) error {
	err := s.table.Apply(seat, decision.Action, decision.Amount)
	if err == nil {
		return nil
	}

	var invalid *InvalidActionError
	if !errors.As(err, &invalid) {
		return err
	}

	s.logger.Warn("rejected action, applying fallback",
		"seat", seat, "action", decision.Action, "reason", invalid.Reason)

	switch decision.Action {
	case Check, Raise:
		if err := s.table.Apply(seat, Call, 0); err == nil {
			return nil
		}
	}
	return s.table.Apply(seat, Fold, 0)
}

func (s *Session) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := s.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
