package funplus

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/funplus/sdk-go/adapters"
)

// Environment selects sandbox or production behavior.
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

// defaultLogServer is the shared log agent endpoint for every stream.
const defaultLogServer = "https://logagent.infra.funplus.net/log"

// Stream labels; globally unique, they key buffers and archive slots.
const (
	labelDataKPI    = "com.funplus.sdk.data.core"
	labelDataCustom = "com.funplus.sdk.data.custom"
	labelRUM        = "com.funplus.sdk.rum"
	labelLogger     = "com.funplus.sdk.logger"
)

// Config errors, surfaced synchronously by Install. This is the one
// place where the SDK refuses to start instead of degrading.
var (
	ErrMissingAppID  = errors.New("funplus: AppID is required")
	ErrMissingAppKey = errors.New("funplus: AppKey is required")
	ErrMissingRUMTag = errors.New("funplus: RUMTag is required")
	ErrMissingRUMKey = errors.New("funplus: RUMKey is required")
)

// Config carries everything the SDK needs at install time. AppID,
// AppKey, RUMTag and RUMKey are mandatory; everything else has working
// defaults.
type Config struct {
	AppID       string
	AppKey      string
	RUMTag      string
	RUMKey      string
	Environment Environment

	// LogServer overrides the log agent endpoint for all streams.
	LogServer string

	// ArchiveDir is where per-stream durability files live. Defaults to
	// the OS temp dir; hosts should point this at app-private storage.
	ArchiveDir string

	// Upload cadences per stream family. Zero keeps the default;
	// a negative value disables the stream's timer.
	DataUploadInterval   time.Duration
	RUMUploadInterval    time.Duration
	LoggerUploadInterval time.Duration

	// RUM sampling rules. A nil sample rate means 1.0 (send all).
	RUMSampleRate     *float64
	RUMEventWhitelist []string
	RUMUserWhitelist  []string
	RUMUserBlacklist  []string

	// LogLevel bounds both diagnostics output and remote log_entry
	// capture. Empty picks by environment: sandbox logs at info,
	// production only at error.
	LogLevel adapters.LogLevel

	// Device describes the host device/app; zero fields are filled with
	// conservative defaults, including a random install ID.
	Device DeviceInfo

	// InstallTimestamp is the app's first-install time in epoch
	// milliseconds. The host persists it across launches; zero means
	// "now".
	InstallTimestamp int64

	// Adapters plug in custom transport, storage and diagnostics.
	Adapters struct {
		HTTPAdapter    adapters.HTTPAdapter
		StorageFactory StorageFactory
		LoggerAdapter  adapters.LoggerAdapter
	}
}

func (c Config) validate() error {
	if c.AppID == "" {
		return ErrMissingAppID
	}
	if c.AppKey == "" {
		return ErrMissingAppKey
	}
	if c.RUMTag == "" {
		return ErrMissingRUMTag
	}
	if c.RUMKey == "" {
		return ErrMissingRUMKey
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Environment == "" {
		c.Environment = EnvironmentProduction
	}
	if c.LogServer == "" {
		c.LogServer = defaultLogServer
	}
	if c.DataUploadInterval == 0 {
		c.DataUploadInterval = 10 * time.Second
	}
	if c.RUMUploadInterval == 0 {
		c.RUMUploadInterval = 10 * time.Second
	}
	if c.LoggerUploadInterval == 0 {
		c.LoggerUploadInterval = 60 * time.Second
	}
	if c.RUMSampleRate == nil {
		rate := 1.0
		c.RUMSampleRate = &rate
	}
	if c.LogLevel == "" {
		if c.Environment == EnvironmentSandbox {
			c.LogLevel = adapters.LogLevelInfo
		} else {
			c.LogLevel = adapters.LogLevelError
		}
	}
	if c.InstallTimestamp == 0 {
		c.InstallTimestamp = time.Now().UnixMilli()
	}
	c.Device = c.Device.withDefaults()
	if c.Adapters.HTTPAdapter == nil {
		c.Adapters.HTTPAdapter = adapters.NewNetHTTPAdapter()
	}
	if c.Adapters.StorageFactory == nil {
		dir := c.ArchiveDir
		c.Adapters.StorageFactory = func(label string) adapters.StorageAdapter {
			return adapters.NewFileStorageAdapter(archivePath(dir, label))
		}
	}
	return c
}

// interval converts a configured cadence into the StreamClient
// convention where zero disables the timer.
func interval(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// archivePath builds the per-label durability file path.
func archivePath(dir, label string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "logagent-archive-"+label+".json.gz")
}
