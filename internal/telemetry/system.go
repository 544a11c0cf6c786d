package telemetry

import (
	"context"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sysdash/internal/models"
	"sysdash/internal/textutil"
)

// SystemHandle holds the last OS read of host identity, CPU and memory.
// All fields are guarded by mu and replaced in place by refresh.
type SystemHandle struct {
	mu  sync.Mutex
	src Source

	host          *host.InfoStat
	cpus          []cpu.InfoStat
	physicalCores int
	memory        *mem.VirtualMemoryStat
}

func newSystemHandle(src Source) *SystemHandle {
	return &SystemHandle{src: src}
}

// refresh re-reads every counter from the source. Partial results returned
// alongside an error are kept; a nil result clears the cached value.
func (h *SystemHandle) refresh(ctx context.Context) {
	h.host, _ = h.src.HostInfo(ctx)
	h.cpus, _ = h.src.CPUs(ctx)
	cores, err := h.src.PhysicalCores(ctx)
	if err != nil || cores < 0 {
		cores = 0
	}
	h.physicalCores = cores
	h.memory, _ = h.src.VirtualMemory(ctx)
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

func (h *SystemHandle) osName() string {
	if h.host == nil {
		return models.UnknownValue
	}
	name := strings.TrimSpace(h.host.Platform)
	if name == "" {
		name = strings.TrimSpace(h.host.OS)
	}
	if name == "" {
		return models.UnknownValue
	}
	return titleCaser.String(textutil.Display(name))
}

func (h *SystemHandle) kernelVersion() string {
	if h.host == nil {
		return models.UnknownValue
	}
	return fallback(h.host.KernelVersion, models.UnknownValue)
}

func (h *SystemHandle) hostName() string {
	if h.host == nil {
		return models.UnknownValue
	}
	return fallback(h.host.Hostname, models.UnknownValue)
}

func (h *SystemHandle) uptime() uint64 {
	if h.host == nil {
		return 0
	}
	return h.host.Uptime
}

// cpuBrand and cpuFrequency describe the first enumerated core.
func (h *SystemHandle) cpuBrand() string {
	if len(h.cpus) == 0 {
		return models.UnknownCPU
	}
	return fallback(h.cpus[0].ModelName, models.UnknownCPU)
}

func (h *SystemHandle) cpuFrequency() uint64 {
	if len(h.cpus) == 0 {
		return 0
	}
	if mhz := h.cpus[0].Mhz; mhz >= 1 {
		return uint64(mhz)
	}
	return detectCPUMHz()
}

func (h *SystemHandle) memoryTotal() uint64 {
	if h.memory == nil {
		return 0
	}
	return h.memory.Total
}

func (h *SystemHandle) memoryUsed() uint64 {
	if h.memory == nil {
		return 0
	}
	return h.memory.Used
}

func fallback(value, placeholder string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return placeholder
	}
	return textutil.Display(value)
}
