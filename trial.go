package cbmark

import (
	"fmt"
	"strings"
	"time"
)

// Trial is one measurement window. Between Start and End its fields hold
// absolute clock readings; after End they hold elapsed durations. A Trial
// produced by Resolution holds per-channel resolution estimates instead.
//
// Wall-clock remainders are nanoseconds while CPU remainders are
// microseconds, matching the granularity of the underlying facilities.
type Trial struct {
	// WallSec is the seconds part of wall-clock time.
	WallSec int64
	// WallNsec is the nanoseconds part of wall-clock time.
	WallNsec int64
	// UserSec is the seconds part of user-mode CPU time.
	UserSec int64
	// UserUsec is the microseconds part of user-mode CPU time.
	UserUsec int64
	// KernelSec is the seconds part of kernel-mode CPU time.
	KernelSec int64
	// KernelUsec is the microseconds part of kernel-mode CPU time.
	KernelUsec int64
}

// Wall returns the wall-clock channel as a Duration.
func (t *Trial) Wall() time.Duration {
	return time.Duration(t.WallSec)*time.Second + time.Duration(t.WallNsec)
}

// User returns the user CPU channel as a Duration.
func (t *Trial) User() time.Duration {
	return time.Duration(t.UserSec)*time.Second + time.Duration(t.UserUsec)*time.Microsecond
}

// Kernel returns the kernel CPU channel as a Duration.
func (t *Trial) Kernel() time.Duration {
	return time.Duration(t.KernelSec)*time.Second + time.Duration(t.KernelUsec)*time.Microsecond
}

// String returns a one-line summary of the trial.
func (t *Trial) String() string {
	return fmt.Sprintf("wall=%ds+%dns user=%ds+%dus kernel=%ds+%dus",
		t.WallSec, t.WallNsec, t.UserSec, t.UserUsec, t.KernelSec, t.KernelUsec)
}

func (t *Trial) setStart(wall Timespec, cpu Usage) {
	t.WallSec = wall.Sec
	t.WallNsec = wall.Nsec
	t.UserSec = cpu.User.Sec
	t.UserUsec = cpu.User.Usec
	t.KernelSec = cpu.Kernel.Sec
	t.KernelUsec = cpu.Kernel.Usec
}

// setElapsed overwrites the start stamps with end - start, borrowing from
// the seconds field when a remainder goes negative.
func (t *Trial) setElapsed(wall Timespec, cpu Usage) {
	t.WallSec, t.WallNsec = borrow(wall.Sec-t.WallSec, wall.Nsec-t.WallNsec, 1_000_000_000)
	t.UserSec, t.UserUsec = borrow(cpu.User.Sec-t.UserSec, cpu.User.Usec-t.UserUsec, 1_000_000)
	t.KernelSec, t.KernelUsec = borrow(cpu.Kernel.Sec-t.KernelSec, cpu.Kernel.Usec-t.KernelUsec, 1_000_000)
}

func borrow(sec, frac, unit int64) (int64, int64) {
	if frac < 0 && sec > 0 {
		sec--
		frac += unit
	}
	return sec, frac
}

// negativeChannels names the channels holding a negative value.
func (t *Trial) negativeChannels() []string {
	var names []string
	if t.WallSec < 0 || t.WallNsec < 0 {
		names = append(names, "wall")
	}
	if t.UserSec < 0 || t.UserUsec < 0 {
		names = append(names, "user")
	}
	if t.KernelSec < 0 || t.KernelUsec < 0 {
		names = append(names, "kernel")
	}
	return names
}

func (t *Trial) checkAnomaly() error {
	if names := t.negativeChannels(); len(names) > 0 {
		return fmt.Errorf("%w: %s (%s)", ErrMeasurementAnomaly, strings.Join(names, ", "), t)
	}
	return nil
}

// fields exposes the six channels in declaration order for aggregation.
func (t *Trial) fields() [6]*int64 {
	return [6]*int64{
		&t.WallSec, &t.WallNsec,
		&t.UserSec, &t.UserUsec,
		&t.KernelSec, &t.KernelUsec,
	}
}
