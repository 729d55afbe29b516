package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/feltworks/casino/internal/poker"
)

// SkillHuman marks a seat reserved for a connecting player rather than
// a scripted agent.
const SkillHuman = "human"

// Config represents the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Table  TableSettings  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings defines the poker table configuration
type TableSettings struct {
	SmallBlind  int          `hcl:"small_blind"`
	BigBlind    int          `hcl:"big_blind"`
	BuyIn       int          `hcl:"buy_in,optional"`
	TurnSeconds int          `hcl:"turn_seconds,optional"`
	Seats       []SeatConfig `hcl:"seat,block"`
}

// SeatConfig defines one seat at the table
type SeatConfig struct {
	Name  string `hcl:"name,label"`
	Skill string `hcl:"skill"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Table: TableSettings{
			SmallBlind:  5,
			BigBlind:    10,
			BuyIn:       1000,
			TurnSeconds: poker.DefaultTurnSeconds,
			Seats: []SeatConfig{
				{Name: "You", Skill: SkillHuman},
				{Name: "Ada", Skill: string(poker.Intermediate)},
				{Name: "Blaise", Skill: string(poker.Beginner)},
			},
		},
	}
}

// LoadConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Table.BuyIn == 0 {
		config.Table.BuyIn = config.Table.BigBlind * 100
	}
	if config.Table.TurnSeconds == 0 {
		config.Table.TurnSeconds = poker.DefaultTurnSeconds
	}
	if len(config.Table.Seats) == 0 {
		config.Table.Seats = defaults.Table.Seats
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Table.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", c.Table.SmallBlind)
	}
	if c.Table.BigBlind <= c.Table.SmallBlind {
		return fmt.Errorf("big blind %d must exceed small blind %d", c.Table.BigBlind, c.Table.SmallBlind)
	}
	if c.Table.BuyIn < c.Table.BigBlind {
		return fmt.Errorf("buy-in %d cannot cover the big blind %d", c.Table.BuyIn, c.Table.BigBlind)
	}
	if len(c.Table.Seats) < 2 {
		return fmt.Errorf("a table needs at least 2 seats, got %d", len(c.Table.Seats))
	}

	humans := 0
	for _, seat := range c.Table.Seats {
		if seat.Name == "" {
			return fmt.Errorf("seat has no name")
		}
		if seat.Skill == SkillHuman {
			humans++
			continue
		}
		if _, err := poker.ParseSkill(seat.Skill); err != nil {
			return fmt.Errorf("seat %q: %w", seat.Name, err)
		}
	}
	if humans > 1 {
		return fmt.Errorf("at most one seat may be %q, got %d", SkillHuman, humans)
	}
	return nil
}

// Address returns the listen address as host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// HumanSeat returns the index of the human seat, or -1 when every seat
// is scripted.
func (c *Config) HumanSeat() int {
	for i, seat := range c.Table.Seats {
		if seat.Skill == SkillHuman {
			return i
		}
	}
	return -1
}
