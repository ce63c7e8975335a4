package cli

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/time/rate"
)

// dumpRequester watches for SIGUSR1 and exposes whether a live status
// dump was requested since the last check, rate-limited so a user
// holding the key down (or a misbehaving script) can't flood stderr.
//
// Grounded on the original's FIXME-marked SIGUSR1 handler, which set an
// atomic flag for the waitpid loop to notice on its next EINTR.
type dumpRequester struct {
	requested atomic.Bool
	limiter   *rate.Limiter
	ch        chan os.Signal
}

func newDumpRequester() *dumpRequester {
	d := &dumpRequester{
		limiter: rate.NewLimiter(rate.Limit(1), 1), // at most one dump per second
		ch:      make(chan os.Signal, 1),
	}
	signal.Notify(d.ch, syscall.SIGUSR1)
	return d
}

// watch consumes SIGUSR1 deliveries until stop is closed, setting
// requested when the limiter allows it. It is meant to run in its own
// goroutine for the life of a trace.
func (d *dumpRequester) watch(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			signal.Stop(d.ch)
			return
		case <-d.ch:
			if d.limiter.Allow() {
				d.requested.Store(true)
			}
		}
	}
}

// takeRequest reports whether a dump was requested since the last call,
// clearing the flag.
func (d *dumpRequester) takeRequest() bool {
	return d.requested.CompareAndSwap(true, false)
}
