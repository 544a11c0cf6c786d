//go:build darwin

package gpu

func defaultProbers() []Prober {
	return []Prober{NewDisplaysProber(), NewLspciProber()}
}
