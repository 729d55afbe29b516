package main

import (
	"os"

	rand "math/rand/v2"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/feltworks/casino/internal/randutil"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Run the casino WebSocket server"`
	Play     PlayCmd          `cmd:"" help:"Play a hold'em table in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Run scripted-only hands for tuning and seeding checks"`
}

func main() {
	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("casino"),
		kong.Description("Casino mini-games built around a Texas Hold'em engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// setupLogger builds the process logger; CASINO_LOG_LEVEL overrides the
// default, --debug overrides both.
func setupLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	if lvl, err := log.ParseLevel(os.Getenv("CASINO_LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// newRNG picks a deterministic stream when a seed is given, otherwise a
// time-derived one.
func newRNG(seed *int64, logger *log.Logger) *rand.Rand {
	if seed != nil {
		logger.Info("Using deterministic seed", "seed", *seed)
		return randutil.New(*seed)
	}
	return randutil.NewSeeded(0)
}
