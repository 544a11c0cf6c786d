// Package gpu names the primary graphics adapter by asking platform
// diagnostic tools. It never fails: no answer becomes DefaultName.
package gpu

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sysdash/internal/models"
)

// DefaultName is reported when no prober finds an adapter.
const DefaultName = models.UnknownGPU

// DefaultTimeout bounds a single Identify call.
const DefaultTimeout = 10 * time.Second

// Identifier tries its probers in order and returns the first name found.
type Identifier struct {
	probers []Prober
	timeout time.Duration
	logf    func(string)
}

// Option configures an Identifier.
type Option func(*Identifier)

// WithTimeout bounds the whole probe sequence. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(i *Identifier) { i.timeout = d }
}

// WithProbers replaces the platform defaults.
func WithProbers(probers ...Prober) Option {
	return func(i *Identifier) { i.probers = probers }
}

// WithLogger receives one line per probe outcome.
func WithLogger(logf func(string)) Option {
	return func(i *Identifier) { i.logf = logf }
}

// NewIdentifier returns an Identifier using the platform's default probers.
func NewIdentifier(opts ...Option) *Identifier {
	i := &Identifier{probers: defaultProbers(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Identify returns "{vendor} {model}" or DefaultName.
func (i *Identifier) Identify(ctx context.Context) string {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	for _, p := range i.probers {
		if ctx.Err() != nil {
			break
		}
		name, ok := p.Probe(ctx)
		// A match with blank vendor and model fields is no name at all.
		name = strings.TrimSpace(name)
		if ok && name != "" {
			probeTotal.WithLabelValues(resultMatched).Inc()
			i.log(fmt.Sprintf("GPU probe %v matched: %s", p, name))
			return name
		}
	}

	probeTotal.WithLabelValues(resultDefault).Inc()
	if err := ctx.Err(); err != nil {
		i.log("GPU probe stopped: " + err.Error())
	}
	return DefaultName
}

func (i *Identifier) log(msg string) {
	if i.logf != nil {
		i.logf(msg)
	}
}
