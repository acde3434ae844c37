package funplus

import (
	"runtime"

	"github.com/google/uuid"
)

// DeviceInfo is the thin device/app context surface the pipeline
// depends on. Hosts fill it from platform APIs; the SDK never reads
// platform properties itself.
type DeviceInfo struct {
	AppVersion string
	AppLang    string
	Model      string
	OS         string
	OSVersion  string
	Carrier    string

	// InstallID is the stable per-install identifier feeding the
	// sampler and the rum_id field. Hosts should persist it; when left
	// empty a random one is generated for the process lifetime, which
	// still keeps sampling consistent within a run.
	InstallID string
}

func (d DeviceInfo) withDefaults() DeviceInfo {
	if d.AppVersion == "" {
		d.AppVersion = "unknown"
	}
	if d.AppLang == "" {
		d.AppLang = "en"
	}
	if d.Model == "" {
		d.Model = "unknown"
	}
	if d.OS == "" {
		d.OS = runtime.GOOS
	}
	if d.OSVersion == "" {
		d.OSVersion = "unknown"
	}
	if d.Carrier == "" {
		d.Carrier = "unknown"
	}
	if d.InstallID == "" {
		d.InstallID = uuid.NewString()
	}
	return d
}
