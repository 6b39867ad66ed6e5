package animation

import (
	"context"
	"log/slog"
	"time"
)

// DefaultFrameInterval is the frame interval of the default loop's driver.
const DefaultFrameInterval = time.Second / 60

// Driver runs a Loop on a timer. It steps the loop once per frame interval
// while animations are playing, sleeps through start delays and sleeps
// indefinitely while the loop is idle until it is woken.
type Driver struct {
	loop     *Loop
	interval time.Duration
	wake     chan struct{}
	log      *slog.Logger
}

// NewDriver returns a Driver stepping loop every interval and installs it
// as the loop's waker. Intervals below one millisecond are raised to one
// millisecond.
func NewDriver(loop *Loop, interval time.Duration, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.Default()
	}
	d := &Driver{
		loop:     loop,
		interval: max(interval, time.Millisecond),
		wake:     make(chan struct{}, 1),
		log:      log,
	}
	loop.SetWaker(d)
	return d
}

// RequestWake implements the Waker interface.
func (d *Driver) RequestWake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run drives the loop until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	d.log.Debug("start animation driver", slog.Duration("interval", d.interval))
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			d.log.Debug("stop animation driver", slog.Any("reason", ctx.Err()))
			return ctx.Err()
		case <-d.wake:
		case <-timer.C:
		}

		wait := d.loop.Step()
		if wait == NoWait {
			timer.Stop()
			continue
		}
		timer.Reset(max(wait, d.interval))
	}
}
