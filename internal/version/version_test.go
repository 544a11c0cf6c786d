package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	saved := [4]string{Version, Commit, Date, Dirty}
	t.Cleanup(func() { Version, Commit, Date, Dirty = saved[0], saved[1], saved[2], saved[3] })

	tests := []struct {
		name                   string
		version, commit, dirty string
		want                   string
	}{
		{"no metadata", "", "", "", "dev"},
		{"clean dev build", "", "abc1234", "clean", "dev-abc1234"},
		{"dirty dev build", "", "abc1234", "dirty", "dev-abc1234*"},
		{"release", "v0.4.0", "abc1234", "dirty", "v0.4.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Dirty = tt.version, tt.commit, tt.dirty
			assert.Equal(t, tt.want, String())
			assert.Equal(t, tt.want, Current().Display)
		})
	}
}
