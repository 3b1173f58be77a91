//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package clock

import (
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

// System reads CLOCK_MONOTONIC and getrusage(RUSAGE_SELF).
type System struct{}

// defaultSource returns the syscall-backed source.
func defaultSource() Source {
	return System{}
}

// Name implements Source.
func (System) Name() string {
	return "clock_gettime+getrusage"
}

// Monotonic implements Source.
func (System) Monotonic() (Timespec, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return Timespec{}, xerrors.Errorf("clock_gettime(CLOCK_MONOTONIC): %w", err)
	}
	return Timespec{Sec: int64(ts.Sec), Nsec: int64(ts.Nsec)}, nil
}

// Usage implements Source.
func (System) Usage() (Usage, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return Usage{}, xerrors.Errorf("getrusage(RUSAGE_SELF): %w", err)
	}
	return Usage{
		User:   Timeval{Sec: int64(ru.Utime.Sec), Usec: int64(ru.Utime.Usec)},
		Kernel: Timeval{Sec: int64(ru.Stime.Sec), Usec: int64(ru.Stime.Usec)},
	}, nil
}
