//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package clock

// defaultSource has nothing to offer here; callers get ErrUnsupported from
// the first read instead of zeroed timings.
func defaultSource() Source {
	return Unsupported{}
}
