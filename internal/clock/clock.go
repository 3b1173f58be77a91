// Package clock provides the host timing facilities cbmark measures with.
//
// A Source answers two questions: what the monotonic clock reads now, and how
// much CPU time the current process has consumed so far, split into user and
// kernel mode. Platform files select the default Source:
//
//   - unix: clock_gettime(CLOCK_MONOTONIC) and getrusage(RUSAGE_SELF)
//   - windows: process times from gopsutil plus Go's monotonic clock
//   - everything else: Unsupported
package clock

import (
	"errors"

	"golang.org/x/xerrors"
)

// ErrUnsupported is returned by sources that cannot read the host clock or
// process accounting on this platform.
var ErrUnsupported = errors.New("clock: timing facility unsupported on this platform")

// Timespec is a monotonic clock reading with nanosecond remainder.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// Timeval is a CPU-time reading with microsecond remainder.
type Timeval struct {
	Sec  int64
	Usec int64
}

// Usage holds the CPU time consumed by the process in each mode.
type Usage struct {
	User   Timeval
	Kernel Timeval
}

// Source reads the host's monotonic clock and process CPU accounting.
type Source interface {
	// Name identifies the facilities used, e.g. "clock_gettime+getrusage".
	Name() string
	// Monotonic returns the current monotonic clock reading.
	Monotonic() (Timespec, error)
	// Usage returns the CPU time consumed by the current process.
	Usage() (Usage, error)
}

// Default returns the platform's preferred Source.
func Default() Source {
	return defaultSource()
}

// processSource is set on platforms where the gopsutil-backed Process
// source builds.
var processSource func() (Source, error)

// Lookup returns a Source by name: "system" (or "") for Default, "process"
// for the gopsutil-backed Process source.
func Lookup(name string) (Source, error) {
	switch name {
	case "", "system":
		return Default(), nil
	case "process":
		if processSource == nil {
			return nil, xerrors.Errorf("process source: %w", ErrUnsupported)
		}
		return processSource()
	default:
		return nil, xerrors.Errorf("unknown clock source %q", name)
	}
}

// Check reads each facility of src once and reports the first failure.
func Check(src Source) error {
	if src == nil {
		return xerrors.Errorf("nil source: %w", ErrUnsupported)
	}
	if _, err := src.Monotonic(); err != nil {
		return xerrors.Errorf("%s monotonic read: %w", src.Name(), err)
	}
	if _, err := src.Usage(); err != nil {
		return xerrors.Errorf("%s usage read: %w", src.Name(), err)
	}
	return nil
}

// Unsupported is a Source that always fails with ErrUnsupported.
type Unsupported struct{}

// Name implements Source.
func (Unsupported) Name() string { return "unsupported" }

// Monotonic implements Source.
func (Unsupported) Monotonic() (Timespec, error) { return Timespec{}, ErrUnsupported }

// Usage implements Source.
func (Unsupported) Usage() (Usage, error) { return Usage{}, ErrUnsupported }

