//go:build linux || darwin || freebsd || openbsd || windows

package clock

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/xerrors"
)

// Process reads CPU times through gopsutil and wall time from Go's monotonic
// clock. Accounting granularity is whatever the OS exposes to gopsutil, which
// is often coarser than getrusage (clock ticks on Linux, 100ns units on
// Windows).
type Process struct {
	proc *process.Process
}

// processEpoch is shared by every Process so readings from separately built
// sources stay comparable.
var processEpoch = time.Now()

func init() {
	processSource = func() (Source, error) {
		p, err := NewProcess()
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// NewProcess returns a Process source for the calling process.
func NewProcess() (*Process, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, xerrors.Errorf("open self process: %w", err)
	}
	return &Process{proc: p}, nil
}

// Name implements Source.
func (p *Process) Name() string {
	return "gopsutil"
}

// Monotonic implements Source. The reading is relative to package
// initialization rather than boot, which is all a delta needs.
func (p *Process) Monotonic() (Timespec, error) {
	d := time.Since(processEpoch)
	return Timespec{
		Sec:  int64(d / time.Second),
		Nsec: int64(d % time.Second),
	}, nil
}

// Usage implements Source.
func (p *Process) Usage() (Usage, error) {
	times, err := p.proc.Times()
	if err != nil {
		return Usage{}, xerrors.Errorf("process times: %w", err)
	}
	return Usage{
		User:   secondsToTimeval(times.User),
		Kernel: secondsToTimeval(times.System),
	}, nil
}

// secondsToTimeval splits fractional seconds into a Timeval.
func secondsToTimeval(s float64) Timeval {
	sec := int64(s)
	usec := int64((s-float64(sec))*1e6 + 0.5)
	if usec >= 1_000_000 {
		sec++
		usec -= 1_000_000
	}
	return Timeval{Sec: sec, Usec: usec}
}
