package main

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/feltworks/casino/internal/server"
	"github.com/feltworks/casino/internal/tui"
)

// PlayCmd runs a local table: the terminal player against the scripted
// seats from the config.
type PlayCmd struct {
	Config  string `kong:"default='casino.hcl',env='CASINO_CONFIG',help='Path to the HCL config file'"`
	Debug   bool   `kong:"help='Write debug logs to casino.log'"`
	Seed    *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	NoColor bool   `kong:"help='Disable colored output'"`
}

func (c *PlayCmd) Run() error {
	// Log to a file: the terminal belongs to the TUI.
	logger := log.New(io.Discard)
	if c.Debug {
		f, err := os.OpenFile("casino.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		logger = log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			Level:           log.DebugLevel,
		})
	}

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	humanSeat := cfg.HumanSeat()
	if humanSeat < 0 {
		return errors.New("config has no human seat; mark one seat with skill = \"human\"")
	}

	seats := make([]tui.Seat, len(cfg.Table.Seats))
	for i, seat := range cfg.Table.Seats {
		seats[i] = tui.Seat{Name: seat.Name, Skill: seat.Skill}
	}

	return tui.Run(tui.Options{
		SmallBlind:  cfg.Table.SmallBlind,
		BigBlind:    cfg.Table.BigBlind,
		BuyIn:       cfg.Table.BuyIn,
		TurnSeconds: cfg.Table.TurnSeconds,
		Seats:       seats,
		HumanSeat:   humanSeat,
		NoColor:     c.NoColor,
	}, logger, newRNG(c.Seed, logger))
}
