package tui

import (
	"context"
	"errors"
	"fmt"

	rand "math/rand/v2"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/feltworks/casino/internal/poker"
)

// Seat names one chair at the table.
type Seat struct {
	Name  string
	Skill string // a poker skill tier, or "human"
}

// Options configures a local table.
type Options struct {
	SmallBlind  int
	BigBlind    int
	BuyIn       int
	TurnSeconds int
	Seats       []Seat
	HumanSeat   int
	NoColor     bool
}

// eventForwarder pushes table events into the program loop.
type eventForwarder struct {
	send func(tea.Msg)
}

func (f *eventForwarder) OnEvent(event poker.Event) {
	f.send(gameEventMsg{event: event})
}

// Run plays a local table: the human seat in the terminal against the
// configured scripted seats. It blocks until the player quits.
func Run(opts Options, logger *log.Logger, rng *rand.Rand) error {
	if opts.HumanSeat < 0 || opts.HumanSeat >= len(opts.Seats) {
		return errors.New("the table needs a human seat")
	}
	if opts.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	names := make([]string, len(opts.Seats))
	for i, seat := range opts.Seats {
		names[i] = seat.Name
	}

	table, err := poker.NewTable(logger, rng, names, opts.SmallBlind, opts.BigBlind,
		poker.WithUniformChips(opts.BuyIn))
	if err != nil {
		return err
	}

	human := NewHumanAgent(opts.TurnSeconds)
	agents := make(map[int]poker.Agent, len(opts.Seats))
	for i, seat := range opts.Seats {
		if i == opts.HumanSeat {
			agents[i] = human
			continue
		}
		skill, err := poker.ParseSkill(seat.Skill)
		if err != nil {
			return fmt.Errorf("seat %q: %w", seat.Name, err)
		}
		agents[i] = poker.NewScriptedAgent(skill, rng)
	}

	session, err := poker.NewSession(table, agents, logger, poker.WithTurnSeconds(opts.TurnSeconds))
	if err != nil {
		return err
	}

	deals := make(chan struct{}, 1)
	model := NewModel(opts.HumanSeat, human, func() {
		select {
		case deals <- struct{}{}:
		default:
		}
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	human.SetSend(program.Send)
	table.Events().Subscribe(&eventForwarder{send: program.Send})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-deals:
			}
			if _, err := session.PlayHand(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				program.Send(handErrorMsg{err: err})
			}
		}
	}()

	_, err = program.Run()
	return err
}
