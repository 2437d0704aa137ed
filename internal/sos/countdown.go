// Package sos implements the cancellable escalation countdown that follows an SOS
package sos

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultSeconds is the countdown length before police are notified
const DefaultSeconds = 60

// TickInterval is the time between countdown ticks
const TickInterval = time.Second

// State is the countdown's lifecycle state
type State int

const (
	Counting State = iota
	Cancelled
	Fired
)

func (s State) String() string {
	switch s {
	case Counting:
		return "counting"
	case Cancelled:
		return "cancelled"
	case Fired:
		return "fired"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Countdown counts down once per tick from a start value.
// Counting moves to Cancelled on Cancel or to Fired when it reaches zero; both are terminal.
type Countdown struct {
	id        string
	remaining int
	state     State
}

// NewCountdown starts a countdown of the given number of seconds.
// A non-positive value selects DefaultSeconds.
func NewCountdown(seconds int) *Countdown {
	if seconds <= 0 {
		seconds = DefaultSeconds
	}
	return &Countdown{id: uuid.NewString(), remaining: seconds, state: Counting}
}

// ID identifies this countdown so ticks scheduled for an earlier one can be ignored
func (c *Countdown) ID() string { return c.id }

// Remaining returns the seconds left
func (c *Countdown) Remaining() int { return c.remaining }

// State returns the current state
func (c *Countdown) State() State { return c.state }

// Active reports whether the countdown is still counting
func (c *Countdown) Active() bool { return c.state == Counting }

// Tick advances the countdown by one second and reports whether this tick fired it.
// Ticks after a terminal state are ignored.
func (c *Countdown) Tick() bool {
	if c.state != Counting {
		return false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.state = Fired
		return true
	}
	return false
}

// Cancel stops a counting countdown, reporting whether it was cancelled by this call
func (c *Countdown) Cancel() bool {
	if c.state != Counting {
		return false
	}
	c.state = Cancelled
	return true
}

// Display renders the remaining time as seconds for the overlay
func (c *Countdown) Display() string {
	return fmt.Sprintf("%d", c.remaining)
}
