//go:build windows

package gpu

func defaultProbers() []Prober {
	return []Prober{WMIProber{}, NewLspciProber()}
}
