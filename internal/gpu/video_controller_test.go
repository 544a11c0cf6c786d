package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdapterName(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name     string
		adapters []win32VideoController
		want     string
		wantOK   bool
	}{
		{
			name:     "vendor prefixed",
			adapters: []win32VideoController{{Name: "Radeon RX 6600", AdapterCompatibility: strPtr("Advanced Micro Devices, Inc.")}},
			want:     "Advanced Micro Devices, Inc. Radeon RX 6600",
			wantOK:   true,
		},
		{
			name:     "vendor already in name",
			adapters: []win32VideoController{{Name: "NVIDIA GeForce RTX 3070", AdapterCompatibility: strPtr("NVIDIA")}},
			want:     "NVIDIA GeForce RTX 3070",
			wantOK:   true,
		},
		{
			name:     "no vendor column",
			adapters: []win32VideoController{{Name: "Microsoft Basic Display Adapter"}},
			want:     "Microsoft Basic Display Adapter",
			wantOK:   true,
		},
		{
			name:     "blank entries skipped",
			adapters: []win32VideoController{{Name: "  "}, {Name: "Intel(R) UHD Graphics 620", AdapterCompatibility: strPtr("Intel Corporation")}},
			want:     "Intel Corporation Intel(R) UHD Graphics 620",
			wantOK:   true,
		},
		{
			name:   "none",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := adapterName(tt.adapters)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
