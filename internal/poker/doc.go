// Package poker implements the Texas Hold'em hand engine: seats, the
// betting round state machine, the category hand evaluator and the
// scripted opponents.
//
// The main type is Table, which owns the state of a session. A Session
// drives complete hands by asking each seat's Agent for decisions and
// racing human turns against a countdown:
//
//	table, _ := poker.NewTable(logger, rng, []string{"You", "Ada"}, 5, 10,
//		poker.WithUniformChips(1000))
//	session, _ := poker.NewSession(table, agents, logger)
//	result, err := session.PlayHand(ctx)
//
// The engine is a pure state-transition core: it never renders. Every
// transition publishes an Event carrying a full Snapshot, and
// presentation layers (the WebSocket server, the TUI) subscribe to the
// table's EventBus.
//
// # Deterministic testing
//
// All randomness is injected. Use randutil.New for a seeded RNG and
// WithDeck for a fully scripted deal; drive countdowns with
// quartz.NewMock through WithClock.
package poker
