package infra

// The SMTP relay is the one external service the worker pool blocks on.
// Breaker wraps every relay call so a downed relay fails fast instead of
// holding a worker for the full dial timeout on each receipt job.

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is the delivery gate for the mail relay.
type BreakerState int

const (
	BreakerClosed  BreakerState = iota // relay healthy, calls pass through
	BreakerOpen                        // relay suspended, calls fail immediately
	BreakerProbing                     // cooldown elapsed, calls test the relay
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerProbing:
		return "probing"
	default:
		return "unknown"
	}
}

// ErrMailerUnavailable is returned while deliveries are suspended. Jobs that
// hit it go back to the queue and retry after the cooldown.
var ErrMailerUnavailable = errors.New("mail relay suspended after repeated delivery failures")

type BreakerConfig struct {
	FailureThreshold int           // consecutive failures before suspending deliveries
	ProbeSuccesses   int           // successful probes required to resume
	Cooldown         time.Duration // wait before the first probe
}

// MailerBreakerConfig is tuned to SMTP relay behavior: three straight
// delivery errors almost always mean the relay is down, and two minutes
// covers a restart or failover.
func MailerBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 3,
		ProbeSuccesses:   2,
		Cooldown:         2 * time.Minute,
	}
}

// Breaker suspends mail delivery after consecutive failures and probes for
// recovery once the cooldown elapses. Safe for concurrent use by the pool.
type Breaker struct {
	mu        sync.Mutex
	cfg       BreakerConfig
	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time
	now       func() time.Time // swapped in tests
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.ProbeSuccesses <= 0 {
		cfg.ProbeSuccesses = 2
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 2 * time.Minute
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// State reports the current gate, moving open → probing once the cooldown
// has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	return b.state
}

// refresh must be called under lock.
func (b *Breaker) refresh() {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		b.state = BreakerProbing
		b.successes = 0
	}
}

// Deliver runs send through the gate. While open it returns
// ErrMailerUnavailable without calling send.
func (b *Breaker) Deliver(send func() error) error {
	b.mu.Lock()
	b.refresh()
	if b.state == BreakerOpen {
		b.mu.Unlock()
		return ErrMailerUnavailable
	}
	b.mu.Unlock()

	err := send()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.fail()
		return err
	}
	b.pass()
	return nil
}

// fail and pass must be called under lock.
func (b *Breaker) fail() {
	b.failures++
	b.openedAt = b.now()
	switch b.state {
	case BreakerProbing:
		// Relay still down — suspend for another cooldown.
		b.state = BreakerOpen
		b.failures = 0
	case BreakerClosed:
		if b.failures >= b.cfg.FailureThreshold {
			b.state = BreakerOpen
			b.failures = 0
		}
	}
}

func (b *Breaker) pass() {
	switch b.state {
	case BreakerClosed:
		b.failures = 0
	case BreakerProbing:
		b.successes++
		if b.successes >= b.cfg.ProbeSuccesses {
			b.state = BreakerClosed
			b.failures = 0
			b.successes = 0
		}
	}
}
