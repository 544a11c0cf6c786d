package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysdash/internal/models"
)

type fakeStats struct {
	calls int
}

func (f *fakeStats) SystemStats(context.Context) models.SystemStats {
	f.calls++
	return models.SystemStats{
		OSName:       "Ubuntu",
		CPUBrand:     models.UnknownCPU,
		GPUName:      "Intel Corporation HD Graphics 620",
		Architecture: "amd64",
		Disks:        []models.DiskInfo{},
		Networks:     []models.NetworkInfo{},
	}
}

func TestGreet(t *testing.T) {
	assert.Equal(t, "Hello, Ada! You've been greeted from Go!", Greet("Ada"))
	assert.Equal(t, "Hello, ! You've been greeted from Go!", Greet(""))
}

func TestDispatcherInvoke(t *testing.T) {
	stats := &fakeStats{}
	d := NewDispatcher(stats)
	ctx := context.Background()

	assert.Equal(t, []string{CmdGetSystemStats, CmdGreet}, d.Commands())

	result, err := d.Invoke(ctx, CmdGetSystemStats, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ubuntu", result.(models.SystemStats).OSName)
	assert.Equal(t, 1, stats.calls)

	result, err = d.Invoke(ctx, CmdGreet, json.RawMessage(`{"name":"Grace"}`))
	require.NoError(t, err)
	assert.Equal(t, "Hello, Grace! You've been greeted from Go!", result)

	result, err = d.Invoke(ctx, CmdGreet, json.RawMessage(`{"name":"Ada","extra":true}`))
	require.NoError(t, err, "unknown fields are ignored")
	assert.Equal(t, "Hello, Ada! You've been greeted from Go!", result)

	result, err = d.Invoke(ctx, CmdGreet, json.RawMessage(`{"name":""}`))
	require.NoError(t, err)
	assert.Equal(t, "Hello, ! You've been greeted from Go!", result)
}

func TestDispatcherErrors(t *testing.T) {
	d := NewDispatcher(&fakeStats{})
	ctx := context.Background()

	_, err := d.Invoke(ctx, "reboot", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	for _, raw := range []string{``, `{}`, `{"name":5}`, `[1,2]`} {
		_, err := d.Invoke(ctx, CmdGreet, json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrInvalidArgs, "args %q", raw)
	}
}

func TestDispatcherRegisterOverrides(t *testing.T) {
	d := NewDispatcher(&fakeStats{})
	d.Register(CmdGreet, func(context.Context, json.RawMessage) (any, error) { return "hi", nil })

	result, err := d.Invoke(context.Background(), CmdGreet, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", result)
}
