//go:build windows

package gpu

import (
	"context"

	wmi "github.com/StackExchange/wmi"
)

const videoControllerQuery = "SELECT Name, AdapterCompatibility FROM Win32_VideoController"

// WMIProber reads the first Win32_VideoController entry.
type WMIProber struct{}

// Probe runs the WMI query on its own goroutine since wmi.Query takes no
// context; a cancelled ctx abandons the result.
func (WMIProber) Probe(ctx context.Context) (string, bool) {
	type result struct {
		adapters []win32VideoController
		err      error
	}
	done := make(chan result, 1)
	go func() {
		var adapters []win32VideoController
		err := wmi.Query(videoControllerQuery, &adapters)
		done <- result{adapters: adapters, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", false
	case r := <-done:
		if r.err != nil {
			return "", false
		}
		return adapterName(r.adapters)
	}
}

func (WMIProber) String() string { return "wmi" }
