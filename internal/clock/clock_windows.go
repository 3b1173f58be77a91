//go:build windows

package clock

// defaultSource uses gopsutil for process times. If the process handle cannot
// be opened the result is Unsupported so the capability check fails loudly.
func defaultSource() Source {
	p, err := NewProcess()
	if err != nil {
		return Unsupported{}
	}
	return p
}
