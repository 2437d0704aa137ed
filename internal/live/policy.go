package live

import (
	"time"

	"github.com/ngmaloney/safestree-terminal/internal/config"
)

// Policy controls how the channel reconnects after a failure
type Policy struct {
	Interval    time.Duration // wait before the first retry
	MaxAttempts int           // consecutive failures before giving up; 0 retries forever
	Multiplier  float64       // growth per consecutive failure; 1 keeps the interval fixed
	MaxInterval time.Duration // upper bound on the wait; 0 means no bound
}

// DefaultPolicy retries every 3 seconds forever
func DefaultPolicy() Policy {
	return Policy{Interval: 3 * time.Second, Multiplier: 1}
}

// PolicyFromConfig builds the retry policy from the LIVE_RETRY_* settings
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		Interval:    cfg.LiveRetryInterval,
		MaxAttempts: cfg.LiveRetryMaxAttempts,
		Multiplier:  cfg.LiveRetryMultiplier,
		MaxInterval: cfg.LiveRetryMaxInterval,
	}
}

// Delay returns the wait after the given number of consecutive failures (starting at 1)
func (p Policy) Delay(failures int) time.Duration {
	d := p.Interval
	if d <= 0 {
		d = DefaultPolicy().Interval
	}
	if p.Multiplier > 1 {
		for i := 1; i < failures; i++ {
			d = time.Duration(float64(d) * p.Multiplier)
			if p.MaxInterval > 0 && d >= p.MaxInterval {
				break
			}
		}
	}
	if p.MaxInterval > 0 && d > p.MaxInterval {
		d = p.MaxInterval
	}
	return d
}

// Exhausted reports whether the policy allows no further attempts after failures consecutive failures
func (p Policy) Exhausted(failures int) bool {
	return p.MaxAttempts > 0 && failures >= p.MaxAttempts
}
