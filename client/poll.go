package client

import (
	"context"
	"time"

	"github.com/synergy-au/sep2go/resource"
)

// PollOptions configures a single StartPoll registration (IEEE 2030.5 §4.E).
type PollOptions struct {
	// Rate is the poll interval; zero selects DefaultPollRate (900s, the
	// IEEE 2030.5 default).
	Rate time.Duration
}

// StartPoll registers a background poll task against path: it waits for
// Rate (or DefaultPollRate), then performs Get[R](path) and invokes
// callback with the result. The task terminates when ctx is cancelled, or
// when it receives Cancel — the equivalent, in this implementation, of
// the original broadcast channel closing.
//
// ForceRun wakes the task immediately, skipping the remainder of its
// wait; the next iteration's wait begins fresh once the forced GET and
// its callback complete, matching IEEE 2030.5 §4.E/§8's force-run property.
//
// Iterations within one poll task are strictly sequential: callback is
// run to completion before the next wait begins. A failed GET is logged
// and the task waits for the next period rather than retrying
// immediately or propagating the error to the caller — the poll
// scheduler is the one component that locally recovers from transport
// and decode errors (IEEE 2030.5 §7).
func StartPoll[R resource.SEResource](ctx context.Context, c *Client, path string, opts PollOptions, callback func(R)) {
	rate := opts.Rate
	if rate <= 0 {
		rate = DefaultPollRate
	}

	sigs, unsubscribe := c.broadcaster.subscribe()

	go func() {
		defer unsubscribe()
		var zero R
		for {
			if !pollWait(ctx, sigs, rate) {
				return
			}

			r, err := Get[R](ctx, c, path)
			if err != nil {
				c.log.Errorf("scheduled poll for resource %s at %s failed, retrying in %s: %v",
					zero.SEName(), path, rate, err)
				continue
			}
			c.log.Infof("scheduled poll for resource %s successful", zero.SEName())
			callback(r)
		}
	}()
}

// pollWait blocks until rate elapses, a signal arrives, or ctx is done.
// It returns false when the caller should terminate (Cancel or ctx done),
// true when the caller should proceed with its next iteration (timer
// elapsed or ForceRun received).
func pollWait(ctx context.Context, sigs <-chan pollSignal, rate time.Duration) bool {
	timer := time.NewTimer(rate)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case sig := <-sigs:
		return sig == pollForceRun
	case <-timer.C:
		return true
	}
}
