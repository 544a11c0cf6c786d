package telemetry

import (
	"context"
	"runtime"
	"strings"
	"time"

	"sysdash/internal/models"
)

// GPUIdentifier names the primary graphics adapter, or returns a placeholder.
type GPUIdentifier interface {
	Identify(ctx context.Context) string
}

// Options tune snapshot assembly.
type Options struct {
	// PopulateIPAddresses fills NetworkInfo.IPAddresses from interface addresses.
	// Off by default: the field has shipped empty and the view does not render it.
	PopulateIPAddresses bool
}

// Collector assembles SystemStats from the shared session.
type Collector struct {
	session *Session
	gpu     GPUIdentifier
	opts    Options
}

// NewCollector wires a collector to the process session. gpu may be nil, in
// which case the GPU name is always the placeholder.
func NewCollector(session *Session, gpu GPUIdentifier, opts Options) *Collector {
	return &Collector{session: session, gpu: gpu, opts: opts}
}

// SystemStats refreshes the session in place and returns a full snapshot.
// It never fails: every unreadable value becomes its placeholder.
func (c *Collector) SystemStats(ctx context.Context) models.SystemStats {
	start := time.Now()
	defer func() {
		statsRequestsTotal.Inc()
		statsCollectionDuration.Observe(time.Since(start).Seconds())
	}()

	stats := c.readSession(ctx)
	stats.GPUName = c.gpuName(ctx)
	stats.Disks = collectDisks(ctx, c.session.src)
	return stats
}

// readSession holds both handle locks for the refresh and the field reads only;
// the GPU probe and disk enumeration run unlocked.
func (c *Collector) readSession(ctx context.Context) models.SystemStats {
	unlock := c.session.lock()
	defer unlock()

	sys := c.session.system
	sys.refresh(ctx)
	c.session.network.refresh(ctx)

	return models.SystemStats{
		OSName:        sys.osName(),
		KernelVersion: sys.kernelVersion(),
		CPUBrand:      sys.cpuBrand(),
		CoreCount:     sys.physicalCores,
		CPUFrequency:  sys.cpuFrequency(),
		Architecture:  runtime.GOARCH,
		HostName:      sys.hostName(),
		Uptime:        sys.uptime(),
		MemoryTotal:   sys.memoryTotal(),
		MemoryUsed:    sys.memoryUsed(),
		Networks:      c.session.network.list(c.opts.PopulateIPAddresses),
	}
}

func (c *Collector) gpuName(ctx context.Context) string {
	if c.gpu == nil {
		return models.UnknownGPU
	}
	name := strings.TrimSpace(c.gpu.Identify(ctx))
	if name == "" {
		return models.UnknownGPU
	}
	return name
}
