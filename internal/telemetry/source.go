// Package telemetry owns the process-lifetime telemetry session and assembles
// host snapshots for the front-end.
package telemetry

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// Source is the OS query facility behind the session handles. HostSource is the
// production implementation; tests substitute canned readings.
type Source interface {
	HostInfo(ctx context.Context) (*host.InfoStat, error)
	CPUs(ctx context.Context) ([]cpu.InfoStat, error)
	PhysicalCores(ctx context.Context) (int, error)
	VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	Partitions(ctx context.Context) ([]disk.PartitionStat, error)
	Usage(ctx context.Context, path string) (*disk.UsageStat, error)
	NetCounters(ctx context.Context) ([]net.IOCountersStat, error)
	Interfaces(ctx context.Context) (net.InterfaceStatList, error)
}

// HostSource reads the local machine through gopsutil.
type HostSource struct{}

// NewHostSource returns a Source backed by the running host.
func NewHostSource() *HostSource {
	return &HostSource{}
}

func (HostSource) HostInfo(ctx context.Context) (*host.InfoStat, error) {
	return host.InfoWithContext(ctx)
}

func (HostSource) CPUs(ctx context.Context) ([]cpu.InfoStat, error) {
	return cpu.InfoWithContext(ctx)
}

func (HostSource) PhysicalCores(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, false)
}

func (HostSource) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

// Partitions lists physical mounts only (no pseudo filesystems).
func (HostSource) Partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	return disk.PartitionsWithContext(ctx, false)
}

func (HostSource) Usage(ctx context.Context, path string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, path)
}

// NetCounters returns per-interface byte counters.
func (HostSource) NetCounters(ctx context.Context) ([]net.IOCountersStat, error) {
	return net.IOCountersWithContext(ctx, true)
}

func (HostSource) Interfaces(ctx context.Context) (net.InterfaceStatList, error) {
	return net.InterfacesWithContext(ctx)
}
