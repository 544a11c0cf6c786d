package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"sysdash/internal/middleware"
	"sysdash/internal/models"
)

// Command names exposed to the view.
const (
	CmdGetSystemStats = "get_system_stats"
	CmdGreet          = "greet"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidArgs    = errors.New("invalid arguments")
)

// StatsProvider produces a full telemetry snapshot. It must not fail.
type StatsProvider interface {
	SystemStats(ctx context.Context) models.SystemStats
}

// Command runs with the raw JSON arguments of one request.
type Command func(ctx context.Context, args json.RawMessage) (any, error)

// Dispatcher maps command names to implementations. HTTP, WebSocket and the
// CLI all invoke commands through it.
type Dispatcher struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewDispatcher registers the built-in commands.
func NewDispatcher(stats StatsProvider) *Dispatcher {
	d := &Dispatcher{commands: make(map[string]Command)}
	d.Register(CmdGetSystemStats, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return stats.SystemStats(ctx), nil
	})
	d.Register(CmdGreet, greetCommand)
	return d
}

// Register adds or replaces a command.
func (d *Dispatcher) Register(name string, cmd Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands[name] = cmd
}

// Commands lists registered names in order.
func (d *Dispatcher) Commands() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs cmd. Errors wrap ErrUnknownCommand or ErrInvalidArgs when the
// request itself is at fault.
func (d *Dispatcher) Invoke(ctx context.Context, cmd string, args json.RawMessage) (any, error) {
	d.mu.RLock()
	fn, ok := d.commands[cmd]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return fn(ctx, args)
}

// GreetArgs are the arguments of the greet command. An empty name is allowed;
// a missing one is not.
type GreetArgs struct {
	Name *string `json:"name" validate:"required"`
}

// Greet returns the greeting for name.
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

func greetCommand(_ context.Context, raw json.RawMessage) (any, error) {
	var args GreetArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	return Greet(*args.Name), nil
}

// decodeArgs decodes raw into v and validates it. Unknown fields are ignored.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	if err := middleware.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}
