package database

import (
	"os"
	"runtime"
	"strings"
)

// SystemInfo describes the host the report was generated on.
type SystemInfo struct {
	Hostname      string `json:"hostname"`
	OSInfo        string `json:"os_info"`
	KernelVersion string `json:"kernel_version"`
	CPUVendor     string `json:"cpu_vendor"`
	CPUModel      string `json:"cpu_model"`
	CPUThreads    int    `json:"cpu_threads"`
	GoVersion     string `json:"go_version"`
}

// CollectSystemInfo never fails; fields it cannot determine read "unknown".
func CollectSystemInfo() *SystemInfo {
	info := &SystemInfo{
		OSInfo:     runtime.GOOS + "/" + runtime.GOARCH,
		CPUThreads: runtime.NumCPU(),
		GoVersion:  runtime.Version(),
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	info.Hostname = hostname

	if data, err := os.ReadFile("/proc/version"); err == nil {
		info.KernelVersion = parseKernelVersion(string(data))
	}
	if data, err := os.ReadFile("/proc/cpuinfo"); err == nil {
		info.CPUVendor, info.CPUModel = parseCPUInfo(string(data))
	}

	for _, field := range []*string{&info.KernelVersion, &info.CPUVendor, &info.CPUModel} {
		if *field == "" {
			*field = "unknown"
		}
	}
	return info
}

// parseKernelVersion reads the third word of /proc/version
// ("Linux version 6.1.0-18-amd64 ...").
func parseKernelVersion(procVersion string) string {
	parts := strings.Fields(procVersion)
	if len(parts) >= 3 {
		return parts[2]
	}
	return ""
}

func parseCPUInfo(cpuinfo string) (vendor, model string) {
	for _, line := range strings.Split(cpuinfo, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "vendor_id":
			if vendor == "" {
				vendor = strings.TrimSpace(value)
			}
		case "model name":
			if model == "" {
				model = strings.TrimSpace(value)
			}
		}
	}
	return vendor, model
}
