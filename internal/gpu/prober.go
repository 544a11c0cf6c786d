package gpu

import (
	"context"
	"errors"
	"os/exec"
)

// Prober is one strategy for naming the graphics adapter.
type Prober interface {
	Probe(ctx context.Context) (name string, ok bool)
}

// Runner executes an external program and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the program through exec.CommandContext, so a cancelled
// context kills it.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	hideWindow(cmd)
	return cmd.Output()
}

// CommandProber runs a diagnostic tool and hands its output to a Parser.
type CommandProber struct {
	Name   string
	Args   []string
	Parser Parser
	Run    Runner
}

// NewLspciProber probes with `lspci -mm`.
func NewLspciProber() *CommandProber {
	return &CommandProber{Name: "lspci", Args: []string{"-mm"}, Parser: LspciParser{}, Run: ExecRunner}
}

// NewDisplaysProber probes with `system_profiler SPDisplaysDataType`.
func NewDisplaysProber() *CommandProber {
	return &CommandProber{Name: "system_profiler", Args: []string{"SPDisplaysDataType"}, Parser: DisplaysParser{}, Run: ExecRunner}
}

// Probe parses whatever the tool printed. A non-zero exit status is not a
// failure on its own; only a tool that could not be started (or was killed
// before printing anything) yields no match.
func (p *CommandProber) Probe(ctx context.Context) (string, bool) {
	run := p.Run
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, p.Name, p.Args...)
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", false
		}
	}
	if len(out) == 0 || p.Parser == nil {
		return "", false
	}
	return p.Parser.Parse(out)
}

func (p *CommandProber) String() string { return p.Name }
