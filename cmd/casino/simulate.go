package main

import (
	"context"
	"fmt"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/feltworks/casino/internal/poker"
	"github.com/feltworks/casino/internal/randutil"
	"github.com/feltworks/casino/internal/server"
)

// SimulateCmd plays scripted-only hands, optionally across parallel
// tables, and reports who ended up with the chips.
type SimulateCmd struct {
	Hands  int    `kong:"default='100',help='Maximum hands per table'"`
	Tables int    `kong:"default='1',help='Number of tables to run in parallel'"`
	Seed   int64  `kong:"default='0',help='RNG seed (0 for random)'"`
	Config string `kong:"default='casino.hcl',env='CASINO_CONFIG',help='Path to the HCL config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

type tableReport struct {
	hands    int
	showdown int
	wins     map[string]int
	chips    map[string]int
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	// Every seat is scripted here; a configured human seat plays the
	// intermediate tier.
	seats := make([]server.SeatConfig, len(cfg.Table.Seats))
	copy(seats, cfg.Table.Seats)
	for i := range seats {
		if seats[i].Skill == server.SkillHuman {
			seats[i].Skill = string(poker.Intermediate)
		}
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Simulating", "tables", c.Tables, "hands", c.Hands, "seed", seed)

	start := time.Now()
	reports := make([]tableReport, c.Tables)
	g := new(errgroup.Group)
	for i := 0; i < c.Tables; i++ {
		g.Go(func() error {
			report, err := c.runTable(cfg, seats, logger, randutil.New(seed+int64(i)))
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.report(reports, time.Since(start))
	return nil
}

func (c *SimulateCmd) runTable(cfg *server.Config, seats []server.SeatConfig, logger *log.Logger, rng *rand.Rand) (tableReport, error) {
	report := tableReport{
		wins:  make(map[string]int),
		chips: make(map[string]int),
	}

	names := make([]string, len(seats))
	for i, seat := range seats {
		names[i] = seat.Name
	}
	table, err := poker.NewTable(logger, rng, names, cfg.Table.SmallBlind, cfg.Table.BigBlind,
		poker.WithUniformChips(cfg.Table.BuyIn))
	if err != nil {
		return report, err
	}

	agents := make(map[int]poker.Agent, len(seats))
	for i, seat := range seats {
		skill, err := poker.ParseSkill(seat.Skill)
		if err != nil {
			return report, err
		}
		agents[i] = poker.NewScriptedAgent(skill, rng)
	}

	session, err := poker.NewSession(table, agents, logger, poker.WithThinkDelay(0))
	if err != nil {
		return report, err
	}

	ctx := context.Background()
	for h := 0; h < c.Hands && !anyBusted(table); h++ {
		result, err := session.PlayHand(ctx)
		if err != nil {
			return report, err
		}
		report.hands++
		report.wins[result.Winner.Name]++
		if result.Showdown {
			report.showdown++
		}
	}

	for _, p := range table.Players() {
		report.chips[p.Name] = p.Chips
	}
	return report, nil
}

// anyBusted reports whether a seat can no longer post a blind.
func anyBusted(table *poker.Table) bool {
	for _, p := range table.Players() {
		if p.Chips == 0 {
			return true
		}
	}
	return false
}

func (c *SimulateCmd) report(reports []tableReport, elapsed time.Duration) {
	totalHands := 0
	totalShowdowns := 0
	wins := make(map[string]int)
	chips := make(map[string]int)
	for _, r := range reports {
		totalHands += r.hands
		totalShowdowns += r.showdown
		for name, n := range r.wins {
			wins[name] += n
		}
		for name, n := range r.chips {
			chips[name] += n
		}
	}

	fmt.Printf("Played %d hands across %d tables in %s (%d showdowns)\n",
		totalHands, len(reports), elapsed.Round(time.Millisecond), totalShowdowns)
	for name, n := range wins {
		fmt.Printf("  %-16s %4d hands won, %d chips\n", name, n, chips[name])
	}
}
