// Package scheduler abstracts wall-clock time and timers so periodic jobs
// and auto-dismiss timers can run against virtual time in tests.
package scheduler

import (
	"context"
	"time"
)

// Cancel stops a scheduled job. Calling it more than once is harmless.
type Cancel func()

// Scheduler runs jobs periodically or once after a delay.
type Scheduler interface {
	Now() time.Time
	// Every runs job each interval once the scheduler is started.
	Every(name string, interval time.Duration, job func()) (Cancel, error)
	// After runs job once after d.
	After(d time.Duration, job func()) Cancel
	Start()
	// Stop cancels every pending job and waits for running ones or ctx.
	Stop(ctx context.Context)
}
