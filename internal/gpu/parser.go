package gpu

import (
	"strings"

	"sysdash/internal/textutil"
)

// Parser extracts a display name for the primary graphics adapter from the
// raw output of a diagnostic tool. ok is false when nothing usable was found.
type Parser interface {
	Parse(out []byte) (name string, ok bool)
}

// Device class labels that mark a graphics adapter in `lspci -mm` output.
var lspciDisplayClasses = []string{
	"VGA compatible controller",
	"3D controller",
	"Display controller",
}

// LspciParser reads machine-readable `lspci -mm` output, where each device is
// one line of quoted fields:
//
//	00:02.0 "VGA compatible controller" "Intel Corporation" "HD Graphics 620" -r02 "Lenovo" "Device 224b"
//
// Splitting on the quote character puts the vendor at index 3 and the device
// at index 5.
type LspciParser struct{}

// Parse returns "{vendor} {device}" for the first graphics line with enough
// fields. Matching lines that are too short are skipped.
func (LspciParser) Parse(out []byte) (string, bool) {
	for _, line := range lines(textutil.Display(string(out))) {
		if !isDisplayClass(line) {
			continue
		}
		parts := strings.Split(line, `"`)
		if len(parts) < 6 {
			continue
		}
		return parts[3] + " " + parts[5], true
	}
	return "", false
}

func isDisplayClass(line string) bool {
	for _, class := range lspciDisplayClasses {
		if strings.Contains(line, class) {
			return true
		}
	}
	return false
}

// DisplaysParser reads `system_profiler SPDisplaysDataType` output and returns
// the first "Chipset Model:" value.
type DisplaysParser struct{}

const chipsetModelKey = "Chipset Model:"

func (DisplaysParser) Parse(out []byte) (string, bool) {
	for _, line := range lines(string(out)) {
		line = strings.TrimSpace(line)
		rest, found := strings.CutPrefix(line, chipsetModelKey)
		if !found {
			continue
		}
		if name := strings.TrimSpace(textutil.Display(rest)); name != "" {
			return name, true
		}
	}
	return "", false
}

// lines splits tool output on newlines with no per-line size limit, dropping a
// trailing carriage return from each line.
func lines(text string) []string {
	out := strings.Split(text, "\n")
	for i, l := range out {
		out[i] = strings.TrimSuffix(l, "\r")
	}
	return out
}
