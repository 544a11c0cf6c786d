//go:build !darwin

package telemetry

func detectCPUMHz() uint64 {
	return 0
}
