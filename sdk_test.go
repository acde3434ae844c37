package funplus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funplus/sdk-go/adapters"
)

// trackingStorageFactory hands out one memory slot per label and keeps
// them inspectable.
type trackingStorageFactory struct {
	mu    sync.Mutex
	slots map[string]*adapters.MemoryStorageAdapter
}

func newTrackingStorageFactory() *trackingStorageFactory {
	return &trackingStorageFactory{slots: make(map[string]*adapters.MemoryStorageAdapter)}
}

func (f *trackingStorageFactory) storage(label string) adapters.StorageAdapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slot, ok := f.slots[label]; ok {
		return slot
	}
	slot := adapters.NewMemoryStorageAdapter()
	f.slots[label] = slot
	return slot
}

func (f *trackingStorageFactory) entries(label string) []string {
	f.mu.Lock()
	slot := f.slots[label]
	f.mu.Unlock()
	if slot == nil {
		return nil
	}
	entries, _ := slot.Load()
	return entries
}

func testConfig(http adapters.HTTPAdapter, storage StorageFactory) Config {
	cfg := Config{
		AppID:       "app1",
		AppKey:      "appkey",
		RUMTag:      "rumtag",
		RUMKey:      "rumkey",
		Environment: EnvironmentSandbox,
		// Negative intervals disable the periodic timers so tests
		// control every flush explicitly.
		DataUploadInterval:   -1,
		RUMUploadInterval:    -1,
		LoggerUploadInterval: -1,
		Device:               DeviceInfo{InstallID: "install-1", AppVersion: "1.2.3"},
	}
	cfg.Adapters.HTTPAdapter = http
	cfg.Adapters.StorageFactory = storage
	cfg.Adapters.LoggerAdapter = adapters.NewNoOpLoggerAdapter()
	return cfg
}

func newTestSDK(t *testing.T) (*SDK, *mockHTTPAdapter, *trackingStorageFactory) {
	t.Helper()
	http := &mockHTTPAdapter{}
	storage := newTrackingStorageFactory()
	sdk, err := Install(testConfig(http, storage.storage))
	require.NoError(t, err)
	t.Cleanup(sdk.Dispose)
	return sdk, http, storage
}

func TestInstall_RequiresMandatoryFields(t *testing.T) {
	base := testConfig(&mockHTTPAdapter{}, newTrackingStorageFactory().storage)

	missingAppID := base
	missingAppID.AppID = ""
	_, err := Install(missingAppID)
	assert.ErrorIs(t, err, ErrMissingAppID)

	missingAppKey := base
	missingAppKey.AppKey = ""
	_, err = Install(missingAppKey)
	assert.ErrorIs(t, err, ErrMissingAppKey)

	missingRUMTag := base
	missingRUMTag.RUMTag = ""
	_, err = Install(missingRUMTag)
	assert.ErrorIs(t, err, ErrMissingRUMTag)

	missingRUMKey := base
	missingRUMKey.RUMKey = ""
	_, err = Install(missingRUMKey)
	assert.ErrorIs(t, err, ErrMissingRUMKey)
}

func TestInstall_StartsSessionAndTracesIt(t *testing.T) {
	sdk, _, _ := newTestSDK(t)

	assert.NotEmpty(t, sdk.Sessions().SessionID())
	assert.False(t, sdk.InstallDate().IsZero())

	entries := sdk.data.kpi.buffer.Snapshot()
	require.NotEmpty(t, entries)
	event, err := DecodeEvent(entries[0])
	require.NoError(t, err)
	assert.Equal(t, "session_start", event.Name)
}

func TestSDK_StreamsAreIndependentSingletons(t *testing.T) {
	sdk, _, _ := newTestSDK(t)

	labels := map[string]bool{}
	sdk.registry.Each(func(c *StreamClient) { labels[c.Label()] = true })

	assert.Equal(t, map[string]bool{
		labelDataKPI:    true,
		labelDataCustom: true,
		labelRUM:        true,
		labelLogger:     true,
	}, labels)

	assert.NotSame(t, sdk.data.kpi, sdk.data.custom)
	assert.Same(t, sdk.data.kpi, sdk.registry.Client(StreamClientConfig{Label: labelDataKPI}))
}

func TestSDK_SetNetworkStatusGatesUploads(t *testing.T) {
	sdk, http, _ := newTestSDK(t)

	sdk.SetNetworkStatus(NetworkStatusNotReachable)
	require.NoError(t, sdk.Data().TraceCustomEvent("purchase_viewed", nil))
	sdk.data.custom.Flush()
	assert.Equal(t, 0, http.callCount())

	sdk.SetNetworkStatus(NetworkStatusWifi)
	sdk.data.custom.Flush()
	assert.Equal(t, 1, http.callCount())
}

func TestSDK_SetNetworkStatusTracesSwitch(t *testing.T) {
	sdk, _, _ := newTestSDK(t)

	sdk.SetNetworkStatus(NetworkStatusWifi)

	entries := sdk.rum.client.buffer.Snapshot()
	require.NotEmpty(t, entries)
	event, err := DecodeEvent(entries[len(entries)-1])
	require.NoError(t, err)
	assert.Equal(t, "network_switch", event.Name)
	assert.Equal(t, "Unknown", event.Properties["source_state"])
	assert.Equal(t, "Wifi", event.Properties["current_state"])
}

func TestSDK_OnTerminatePersistsEveryStream(t *testing.T) {
	sdk, _, storage := newTestSDK(t)

	require.NoError(t, sdk.Data().TraceCustomEvent("boss_defeated", nil))
	sdk.RUM().TraceAppForeground()

	sdk.OnTerminate()

	assert.NotEmpty(t, storage.entries(labelDataCustom))
	assert.NotEmpty(t, storage.entries(labelRUM))
	assert.NotEmpty(t, storage.entries(labelDataKPI), "the install-time session_start is still buffered")
}

func TestSDK_OnBackgroundFlushes(t *testing.T) {
	sdk, http, _ := newTestSDK(t)

	require.NoError(t, sdk.Data().TraceCustomEvent("app_minimized", nil))
	sdk.OnBackground()

	assert.Greater(t, http.callCount(), 0)
	assert.Equal(t, 0, sdk.data.custom.buffer.Len())
}

func TestSDK_OnForegroundStartsFreshSession(t *testing.T) {
	sdk, _, _ := newTestSDK(t)

	first := sdk.Sessions().SessionID()
	sdk.OnBackground()
	time.Sleep(1100 * time.Millisecond)
	sdk.OnForeground()

	assert.NotEqual(t, first, sdk.Sessions().SessionID())
}

func TestSDK_DisposeIsIdempotent(t *testing.T) {
	sdk, _, _ := newTestSDK(t)
	sdk.Dispose()
	sdk.Dispose()
}
