package gpu

import "strings"

// win32VideoController mirrors the Win32_VideoController columns we query.
type win32VideoController struct {
	Name                 string
	AdapterCompatibility *string
}

// adapterName picks the first named controller and prefixes its vendor unless
// the name already starts with it.
func adapterName(adapters []win32VideoController) (string, bool) {
	for _, a := range adapters {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		if a.AdapterCompatibility != nil {
			vendor := strings.TrimSpace(*a.AdapterCompatibility)
			if vendor != "" && !strings.HasPrefix(strings.ToLower(name), strings.ToLower(vendor)) {
				name = vendor + " " + name
			}
		}
		return name, true
	}
	return "", false
}
