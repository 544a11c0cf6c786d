package telemetry

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v4/net"

	"sysdash/internal/models"
	"sysdash/internal/textutil"
)

type ifaceState struct {
	received         uint64
	transmitted      uint64
	totalReceived    uint64
	totalTransmitted uint64
	mac              string
	addrs            []string
}

// NetworkHandle tracks per-interface byte counters between refreshes so each
// snapshot can report traffic since the previous one.
type NetworkHandle struct {
	mu     sync.Mutex
	src    Source
	ifaces map[string]*ifaceState
}

func newNetworkHandle(src Source) *NetworkHandle {
	return &NetworkHandle{src: src, ifaces: make(map[string]*ifaceState)}
}

// refresh re-reads counters for every interface. Interfaces seen for the first
// time start with a zero delta; interfaces that vanished are dropped.
func (h *NetworkHandle) refresh(ctx context.Context) {
	counters, _ := h.src.NetCounters(ctx)
	details, _ := h.src.Interfaces(ctx)

	byName := make(map[string]net.InterfaceStat, len(details))
	for _, d := range details {
		byName[d.Name] = d
	}

	seen := make(map[string]struct{}, len(counters))
	for _, c := range counters {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		st, ok := h.ifaces[c.Name]
		if !ok {
			st = &ifaceState{totalReceived: c.BytesRecv, totalTransmitted: c.BytesSent}
			h.ifaces[c.Name] = st
		}
		st.received = saturatingSub(c.BytesRecv, st.totalReceived)
		st.transmitted = saturatingSub(c.BytesSent, st.totalTransmitted)
		st.totalReceived = c.BytesRecv
		st.totalTransmitted = c.BytesSent

		st.mac = models.UnspecifiedMAC
		st.addrs = st.addrs[:0]
		if d, ok := byName[c.Name]; ok {
			if mac := strings.TrimSpace(d.HardwareAddr); mac != "" {
				st.mac = mac
			}
			for _, a := range d.Addrs {
				st.addrs = append(st.addrs, a.Addr)
			}
		}
		seen[c.Name] = struct{}{}
	}

	for name := range h.ifaces {
		if _, ok := seen[name]; !ok {
			delete(h.ifaces, name)
		}
	}
}

// list maps the refreshed interfaces to response records ordered by name.
// Addresses are only copied when includeAddrs is set.
func (h *NetworkHandle) list(includeAddrs bool) []models.NetworkInfo {
	names := make([]string, 0, len(h.ifaces))
	for name := range h.ifaces {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]models.NetworkInfo, 0, len(names))
	for _, name := range names {
		st := h.ifaces[name]
		addrs := []string{}
		if includeAddrs {
			addrs = append(addrs, st.addrs...)
		}
		out = append(out, models.NetworkInfo{
			Name:             textutil.Display(name),
			Received:         st.received,
			Transmitted:      st.transmitted,
			TotalReceived:    st.totalReceived,
			TotalTransmitted: st.totalTransmitted,
			MACAddress:       st.mac,
			IPAddresses:      addrs,
		})
	}
	return out
}

func saturatingSub(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}
