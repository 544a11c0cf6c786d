package models

// Placeholders reported when the host cannot provide a value.
const (
	UnknownValue   = "Unknown"
	UnknownCPU     = "Unknown CPU"
	UnknownGPU     = "Unknown / Integrated"
	UnspecifiedMAC = "00:00:00:00:00:00"
)

// SystemStats is a point-in-time snapshot of host telemetry returned to the front-end view.
type SystemStats struct {
	OSName        string        `json:"os_name" yaml:"os_name"`
	KernelVersion string        `json:"kernel_version" yaml:"kernel_version"`
	CPUBrand      string        `json:"cpu_brand" yaml:"cpu_brand"`
	CoreCount     int           `json:"core_count" yaml:"core_count"`
	CPUFrequency  uint64        `json:"cpu_frequency" yaml:"cpu_frequency"` // MHz
	Architecture  string        `json:"architecture" yaml:"architecture"`
	HostName      string        `json:"host_name" yaml:"host_name"`
	Uptime        uint64        `json:"uptime" yaml:"uptime"` // seconds
	MemoryTotal   uint64        `json:"memory_total" yaml:"memory_total"`
	MemoryUsed    uint64        `json:"memory_used" yaml:"memory_used"`
	GPUName       string        `json:"gpu_name" yaml:"gpu_name"`
	Disks         []DiskInfo    `json:"disks" yaml:"disks"`
	Networks      []NetworkInfo `json:"networks" yaml:"networks"`
}

// DiskInfo is a copy of one mounted filesystem at snapshot time.
type DiskInfo struct {
	Name           string `json:"name" yaml:"name"`
	MountPoint     string `json:"mount_point" yaml:"mount_point"`
	TotalSpace     uint64 `json:"total_space" yaml:"total_space"`
	AvailableSpace uint64 `json:"available_space" yaml:"available_space"`
	FileSystem     string `json:"file_system" yaml:"file_system"`
}

// NetworkInfo reports traffic for one interface. Received and Transmitted cover the
// interval since the previous refresh; the Total fields are cumulative.
type NetworkInfo struct {
	Name             string `json:"name" yaml:"name"`
	Received         uint64 `json:"received" yaml:"received"`
	Transmitted      uint64 `json:"transmitted" yaml:"transmitted"`
	TotalReceived    uint64 `json:"total_received" yaml:"total_received"`
	TotalTransmitted uint64 `json:"total_transmitted" yaml:"total_transmitted"`
	MACAddress       string `json:"mac_address" yaml:"mac_address"`
	// IPAddresses stays empty unless populate_ip_addresses is enabled in sysdash.config.
	// The front-end tolerates the empty list; it is never null.
	IPAddresses []string `json:"ip_addresses" yaml:"ip_addresses"`
}
