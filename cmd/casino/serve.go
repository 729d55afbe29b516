package main

import (
	"github.com/charmbracelet/log"

	"github.com/feltworks/casino/internal/server"
)

// ServeCmd runs the WebSocket server around a single configured table.
type ServeCmd struct {
	Config string `kong:"default='casino.hcl',env='CASINO_CONFIG',help='Path to the HCL config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *ServeCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if !c.Debug {
		if lvl, err := log.ParseLevel(cfg.Server.LogLevel); err == nil {
			logger.SetLevel(lvl)
		}
	}

	rng := newRNG(c.Seed, logger)
	srv, err := server.NewServer(cfg, logger, rng)
	if err != nil {
		return err
	}

	logger.Info("Starting casino server",
		"addr", cfg.Address(),
		"small_blind", cfg.Table.SmallBlind,
		"big_blind", cfg.Table.BigBlind,
		"buy_in", cfg.Table.BuyIn,
		"seats", len(cfg.Table.Seats))
	return srv.Start()
}
