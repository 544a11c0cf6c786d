package gpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const lspciSample = `00:00.0 "Host bridge" "Intel Corporation" "Xeon E3-1200 v6/7th Gen Core Processor Host Bridge/DRAM Registers" -r02 "Lenovo" "Device 224b"
00:02.0 "VGA compatible controller" "Intel Corporation" "HD Graphics 620" -r02 "Lenovo" "Device 224b"
00:14.0 "USB controller" "Intel Corporation" "Sunrise Point-LP USB 3.0 xHCI Controller" -r21 -p30 "Lenovo" "Device 224b"
`

func TestLspciParser(t *testing.T) {
	tests := []struct {
		name   string
		out    string
		want   string
		wantOK bool
	}{
		{
			name:   "intel integrated",
			out:    lspciSample,
			want:   "Intel Corporation HD Graphics 620",
			wantOK: true,
		},
		{
			name:   "3d controller",
			out:    `01:00.0 "3D controller" "NVIDIA Corporation" "GP108M [GeForce MX150]" -ra1 "Lenovo" "Device 225e"`,
			want:   "NVIDIA Corporation GP108M [GeForce MX150]",
			wantOK: true,
		},
		{
			name: "short matching line is skipped",
			out: `00:02.0 "VGA compatible controller" "Intel Corporation
03:00.0 "Display controller" "Advanced Micro Devices, Inc. [AMD/ATI]" "Lexa PRO [Radeon 540/540X/550/550X]" -rc7 "" ""`,
			want:   "Advanced Micro Devices, Inc. [AMD/ATI] Lexa PRO [Radeon 540/540X/550/550X]",
			wantOK: true,
		},
		{
			name:   "only a short matching line",
			out:    `00:02.0 "VGA compatible controller" "Intel Corporation`,
			wantOK: false,
		},
		{
			name:   "no graphics device",
			out:    `00:14.0 "USB controller" "Intel Corporation" "xHCI" -r21 "Lenovo" "Device 224b"`,
			wantOK: false,
		},
		{
			name:   "empty output",
			out:    "",
			wantOK: false,
		},
		{
			name:   "first match wins",
			out:    lspciSample + `01:00.0 "3D controller" "NVIDIA Corporation" "GP108M" -ra1 "Lenovo" "Device 225e"`,
			want:   "Intel Corporation HD Graphics 620",
			wantOK: true,
		},
		{
			name:   "invalid utf-8 is replaced",
			out:    "00:02.0 \"VGA compatible controller\" \"Vendor\xff\" \"Model\" -r00 \"\" \"\"",
			want:   "Vendor� Model",
			wantOK: true,
		},
		{
			name:   "oversized line before the graphics entry",
			out:    `00:1f.0 "ISA bridge" "` + strings.Repeat("x", 2<<20) + "\"\n" + lspciSample,
			want:   "Intel Corporation HD Graphics 620",
			wantOK: true,
		},
		{
			name:   "crlf line endings",
			out:    strings.ReplaceAll(lspciSample, "\n", "\r\n"),
			want:   "Intel Corporation HD Graphics 620",
			wantOK: true,
		},
		{
			name:   "empty vendor and model fields",
			out:    `00:02.0 "VGA compatible controller" "" "" -r00 "" ""`,
			want:   " ",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LspciParser{}.Parse([]byte(tt.out))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

const displaysSample = `Graphics/Displays:

    Apple M2 Pro:

      Chipset Model: Apple M2 Pro
      Type: GPU
      Bus: Built-In
      Total Number of Cores: 19
`

func TestDisplaysParser(t *testing.T) {
	got, ok := DisplaysParser{}.Parse([]byte(displaysSample))
	assert.True(t, ok)
	assert.Equal(t, "Apple M2 Pro", got)

	_, ok = DisplaysParser{}.Parse([]byte("Graphics/Displays:\n      Chipset Model:   \n"))
	assert.False(t, ok)
}
