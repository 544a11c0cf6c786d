//go:build darwin

package telemetry

import "golang.org/x/sys/unix"

// detectCPUMHz reads the nominal clock from sysctl when gopsutil reports none
// (Apple silicon exposes no per-core frequency).
func detectCPUMHz() uint64 {
	if freq, err := unix.SysctlUint64("hw.cpufrequency"); err == nil && freq > 0 {
		return freq / 1e6
	}
	return 0
}
