// Package cbmark times a region of code in wall-clock and CPU time.
//
// A Trial records the monotonic clock and the process's user and kernel CPU
// time at Start, and End replaces those stamps with the elapsed amounts:
//
//	var t cbmark.Trial
//	if err := cbmark.Start(&t); err != nil {
//	    log.Fatal(err)
//	}
//	work()
//	if err := cbmark.End(&t); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cbmark.Print(&t); err != nil {
//	    log.Fatal(err)
//	}
//
// Resolution runs many empty trials to estimate the smallest increment each
// channel can resolve on the host:
//
//	res, err := cbmark.Resolution(1000, cbmark.WithPolicy(cbmark.AverageCeiling))
//
// # Clocks
//
// On unix the wall channel comes from clock_gettime(CLOCK_MONOTONIC) and the
// CPU channels from getrusage(RUSAGE_SELF). On Windows both CPU channels come
// from the process times reported by gopsutil. Other platforms have no
// default clock; New fails with ErrClockUnavailable there unless WithClock
// supplies one.
//
// A Timer is safe for concurrent use, but a single Trial must only be used by
// one goroutine at a time.
package cbmark

import (
	"bufio"
	"fmt"

	"github.com/graemedouglas/cbmark/internal/clock"
)

// Timer measures Trials against a Clock.
type Timer struct {
	cfg *Config
}

// New returns a Timer configured by opts. It reads the clock once and fails
// with ErrClockUnavailable if that is not possible.
func New(opts ...Option) (*Timer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := checkClock(cfg.clock); err != nil {
		return nil, err
	}
	return &Timer{cfg: cfg}, nil
}

// Policy returns the aggregation policy used by Resolution.
func (tm *Timer) Policy() Policy {
	return tm.cfg.policy
}

// ClockName identifies the clock the Timer reads.
func (tm *Timer) ClockName() string {
	return tm.cfg.clock.Name()
}

// Start records the current monotonic time and process CPU usage into t.
func (tm *Timer) Start(t *Trial) error {
	wall, cpu, err := tm.read()
	if err != nil {
		return err
	}
	t.setStart(wall, cpu)
	return nil
}

// End replaces the stamps recorded by Start with the time elapsed since.
// End must be called exactly once per Start; calling it on a Trial that was
// not started yields meaningless values.
//
// If any channel comes out negative the deltas are kept and the returned
// error wraps ErrMeasurementAnomaly.
func (tm *Timer) End(t *Trial) error {
	wall, cpu, err := tm.read()
	if err != nil {
		return err
	}
	t.setElapsed(wall, cpu)
	return t.checkAnomaly()
}

// Measure times a single call of fn. On ErrMeasurementAnomaly the Trial is
// returned alongside the error.
func (tm *Timer) Measure(fn func()) (*Trial, error) {
	t := new(Trial)
	if err := tm.Start(t); err != nil {
		return nil, err
	}
	fn()
	if err := tm.End(t); err != nil {
		return t, err
	}
	return t, nil
}

// Print writes the three channels of t to the configured output and flushes
// it before returning.
func (tm *Timer) Print(t *Trial) error {
	w := bufio.NewWriter(tm.cfg.out)
	fmt.Fprintf(w, "Wallclock time: %d seconds, %d nanoseconds\n", t.WallSec, t.WallNsec)
	fmt.Fprintf(w, "User CPU-time: %d seconds, %d microseconds\n", t.UserSec, t.UserUsec)
	fmt.Fprintf(w, "Kernel CPU-time: %d seconds, %d microseconds\n", t.KernelSec, t.KernelUsec)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("cbmark: print: %w", err)
	}
	if f, ok := tm.cfg.out.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("cbmark: print: %w", err)
		}
	}
	return nil
}

// read takes the clock readings in the same order for Start and End.
func (tm *Timer) read() (Timespec, Usage, error) {
	wall, err := tm.cfg.clock.Monotonic()
	if err != nil {
		return Timespec{}, Usage{}, fmt.Errorf("%w: %w", ErrClockUnavailable, err)
	}
	cpu, err := tm.cfg.clock.Usage()
	if err != nil {
		return Timespec{}, Usage{}, fmt.Errorf("%w: %w", ErrClockUnavailable, err)
	}
	return wall, cpu, nil
}

// Start records the start of t using the platform clock.
func Start(t *Trial) error {
	return platformTimer().Start(t)
}

// End completes t using the platform clock. See Timer.End.
func End(t *Trial) error {
	return platformTimer().End(t)
}

// Print writes t to standard output. See Timer.Print.
func Print(t *Trial) error {
	return platformTimer().Print(t)
}

// platformTimer skips the capability check New performs; a missing clock
// still surfaces as ErrClockUnavailable on the first read.
func platformTimer() *Timer {
	return &Timer{cfg: defaultConfig()}
}

func checkClock(src Clock) error {
	if err := clock.Check(src); err != nil {
		return fmt.Errorf("%w: %w", ErrClockUnavailable, err)
	}
	return nil
}
