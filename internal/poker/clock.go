package poker

import (
	"time"

	"github.com/coder/quartz"
)

// TurnClock issues the per-turn countdown. Expiry is delivered as a
// channel close so the session treats it as one more case in its turn
// select; tests drive it with quartz.NewMock.
type TurnClock struct {
	clock   quartz.Clock
	seconds int
}

// NewTurnClock creates a countdown source with the given turn length.
func NewTurnClock(clock quartz.Clock, seconds int) *TurnClock {
	return &TurnClock{clock: clock, seconds: seconds}
}

// Seconds returns the configured turn length.
func (tc *TurnClock) Seconds() int { return tc.seconds }

// Countdown is one running turn timer. Expired is closed when the turn
// is out of time.
type Countdown struct {
	Expired <-chan struct{}

	timer *quartz.Timer
}

// Start begins a countdown for one turn.
func (tc *TurnClock) Start() *Countdown {
	expired := make(chan struct{})
	timer := tc.clock.AfterFunc(time.Duration(tc.seconds)*time.Second, func() {
		close(expired)
	})
	return &Countdown{Expired: expired, timer: timer}
}

// Stop cancels the countdown. Safe to call after expiry.
func (cd *Countdown) Stop() {
	cd.timer.Stop()
}
