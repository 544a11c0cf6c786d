package telemetry

import "context"

// Session is the process-lifetime telemetry state: one system handle and one
// network handle, each with its own lock. It is built once at startup and
// mutated in place by every snapshot; it is never replaced.
type Session struct {
	src     Source
	system  *SystemHandle
	network *NetworkHandle
}

// NewSession performs an eager full scan so the first snapshot already has
// baseline network counters.
func NewSession(ctx context.Context, src Source) *Session {
	s := &Session{
		src:     src,
		system:  newSystemHandle(src),
		network: newNetworkHandle(src),
	}
	unlock := s.lock()
	s.system.refresh(ctx)
	s.network.refresh(ctx)
	unlock()
	return s
}

// lock acquires the system handle and then the network handle. Every caller
// that needs both must go through here to keep that order.
func (s *Session) lock() func() {
	s.system.mu.Lock()
	s.network.mu.Lock()
	return func() {
		s.network.mu.Unlock()
		s.system.mu.Unlock()
	}
}
