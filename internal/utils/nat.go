package utils

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	natlib "github.com/libp2p/go-nat"
)

// NAT is an alias to the libp2p NAT interface.
type NAT = natlib.NAT

// PortMapper is the part of a NAT gateway the port forwarder uses.
type PortMapper interface {
	AddPortMapping(ctx context.Context, protocol string, internalPort int, description string, timeout time.Duration) (int, error)
	DeletePortMapping(ctx context.Context, protocol string, internalPort int) error
}

var (
	natOnce      sync.Once
	cachedNAT    NAT
	cachedNATErr error
)

// DiscoverNAT locates a NAT gateway using UPnP or NAT-PMP. The result is
// cached for the process lifetime to avoid repeated SSDP lookups.
func DiscoverNAT(ctx context.Context) (NAT, error) {
	natOnce.Do(func() {
		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		cachedNAT, cachedNATErr = natlib.DiscoverGateway(c)
	})
	return cachedNAT, cachedNATErr
}

func discoverMapper(ctx context.Context) (PortMapper, error) {
	n, err := DiscoverNAT(ctx)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errors.New("no NAT gateway found")
	}
	return n, nil
}

// PortForwardStatus is a snapshot of the forwarder state.
type PortForwardStatus struct {
	Active       bool   `json:"active"`
	ExternalPort int    `json:"external_port"`
	LastError    string `json:"last_error,omitempty"`
}

// PortForwarder keeps a TCP mapping for the dashboard port alive on the
// local gateway, refreshing it until stopped.
type PortForwarder struct {
	Port        int
	Description string
	Lifetime    time.Duration
	Interval    time.Duration
	Logger      *Logger

	// Discover defaults to DiscoverNAT.
	Discover func(ctx context.Context) (PortMapper, error)

	mu     sync.Mutex
	status PortForwardStatus
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPortForwarder returns a forwarder for the given TCP port with a
// ten minute lease refreshed every five minutes.
func NewPortForwarder(port int, logger *Logger) *PortForwarder {
	return &PortForwarder{
		Port:        port,
		Description: "sysdash",
		Lifetime:    10 * time.Minute,
		Interval:    5 * time.Minute,
		Logger:      logger,
		Discover:    discoverMapper,
	}
}

// Start begins the refresh loop. Calling Start on a running forwarder is a no-op.
func (f *PortForwarder) Start(ctx context.Context) {
	if f == nil || f.Port <= 0 {
		return
	}
	f.mu.Lock()
	if f.cancel != nil {
		f.mu.Unlock()
		return
	}
	ctx, f.cancel = context.WithCancel(ctx)
	f.done = make(chan struct{})
	done := f.done
	f.mu.Unlock()

	go func() {
		defer close(done)
		f.refresh(ctx)
		ticker := time.NewTicker(f.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				f.refresh(ctx)
			}
		}
	}()
}

// Stop ends the refresh loop and removes the mapping (best-effort).
func (f *PortForwarder) Stop(ctx context.Context) {
	if f == nil {
		return
	}
	f.mu.Lock()
	cancel, done := f.cancel, f.done
	f.cancel, f.done = nil, nil
	f.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done

	mapper, err := f.Discover(ctx)
	if err == nil {
		c, cancelDelete := context.WithTimeout(ctx, 5*time.Second)
		err = mapper.DeletePortMapping(c, "tcp", f.Port)
		cancelDelete()
	}
	if err != nil {
		f.Logger.Write("Port forward removal failed: " + err.Error())
	} else {
		f.Logger.Write("Port forward mapping removed")
	}

	f.mu.Lock()
	f.status.Active = false
	f.status.ExternalPort = 0
	f.mu.Unlock()
}

// Status returns the last refresh outcome.
func (f *PortForwarder) Status() PortForwardStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *PortForwarder) refresh(ctx context.Context) {
	externalPort, err := f.addMapping(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.status = PortForwardStatus{LastError: err.Error()}
		f.Logger.Write("Port forward attempt failed: " + err.Error())
		return
	}
	f.status = PortForwardStatus{Active: true, ExternalPort: externalPort}
	f.Logger.Write(fmt.Sprintf("Port forward active: internal TCP %d -> external TCP %d", f.Port, externalPort))
}

func (f *PortForwarder) addMapping(ctx context.Context) (int, error) {
	mapper, err := f.Discover(ctx)
	if err != nil {
		return 0, err
	}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return mapper.AddPortMapping(c, "tcp", f.Port, f.Description, f.Lifetime)
}
