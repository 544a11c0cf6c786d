//go:build !darwin && !windows

package gpu

func defaultProbers() []Prober {
	return []Prober{NewLspciProber()}
}
