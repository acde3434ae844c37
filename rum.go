package funplus

import (
	"sync"

	"github.com/funplus/sdk-go/adapters"
)

// NetworkStatus is the coarse connectivity state reported by the host's
// reachability signal.
type NetworkStatus string

const (
	NetworkStatusUnknown      NetworkStatus = "Unknown"
	NetworkStatusNotReachable NetworkStatus = "NotReachable"
	NetworkStatusWifi         NetworkStatus = "Wifi"
	NetworkStatusCellular     NetworkStatus = "Cellular"
)

// Online reports whether the status allows uploads.
func (s NetworkStatus) Online() bool {
	return s == NetworkStatusWifi || s == NetworkStatusCellular
}

// ServiceMonitoringInfo describes one monitored service call for
// TraceServiceMonitoring.
type ServiceMonitoringInfo struct {
	ServiceName  string
	HTTPURL      string
	HTTPStatus   string
	RequestSize  int
	ResponseSize int
	// HTTPLatency is the request round trip in milliseconds.
	HTTPLatency int64
	RequestTS   int64
	ResponseTS  int64
	RequestID   string
	TargetUserID string
	GameServerID string
}

// RUMTracer produces real-user-monitoring events (app lifecycle,
// network transitions, service call timing). Every event passes the
// sampler; suppressed events never reach the buffer.
type RUMTracer struct {
	config  Config
	client  *StreamClient
	sampler *Sampler
	session *SessionManager
	extra   *ExtraProperties
	logger  adapters.LoggerAdapter
	rumID   string

	mu             sync.Mutex
	currentStatus  NetworkStatus
	previousStatus NetworkStatus
}

func newRUMTracer(config Config, registry *Registry, session *SessionManager, logger adapters.LoggerAdapter) *RUMTracer {
	t := &RUMTracer{
		config:  config,
		session: session,
		sampler: NewSampler(SamplerConfig{
			SampleRate:     *config.RUMSampleRate,
			EventWhitelist: config.RUMEventWhitelist,
			UserWhitelist:  config.RUMUserWhitelist,
			UserBlacklist:  config.RUMUserBlacklist,
		}, config.Device.InstallID),
		extra:         NewExtraProperties(),
		logger:        logger,
		rumID:         config.Device.InstallID,
		currentStatus: NetworkStatusUnknown,
	}
	t.client = registry.Client(StreamClientConfig{
		Label:          labelRUM,
		Endpoint:       config.LogServer,
		Tag:            config.RUMTag,
		Key:            config.RUMKey,
		UploadInterval: interval(config.RUMUploadInterval),
		Progress: func(success bool, total, uploaded int) {
			if uploaded != 0 {
				logger.Debug("rum upload: uploaded=%d", uploaded)
			}
		},
	})
	return t
}

// Trace runs a caller-built RUM event through the sampler and enqueues
// it when accepted.
func (t *RUMTracer) Trace(event Event) {
	if !t.sampler.ShouldSend(event) {
		t.logger.Debug("rum: event %q suppressed by sampler", event.Name)
		return
	}
	t.client.Trace(event)
}

// TraceAppForeground traces an app_foreground event.
func (t *RUMTracer) TraceAppForeground() {
	t.Trace(t.buildEvent("app_foreground", nil))
}

// TraceAppBackground traces an app_background event.
func (t *RUMTracer) TraceAppBackground() {
	t.Trace(t.buildEvent("app_background", nil))
}

// TraceNetworkSwitch traces a network_switch event between two
// connectivity states.
func (t *RUMTracer) TraceNetworkSwitch(sourceState, currentState string) {
	t.Trace(t.buildEvent("network_switch", map[string]any{
		"source_state":  sourceState,
		"current_state": currentState,
	}))
}

// TraceServiceMonitoring traces a service_monitoring event.
func (t *RUMTracer) TraceServiceMonitoring(info ServiceMonitoringInfo) {
	gameServerID := info.GameServerID
	if gameServerID == "" {
		gameServerID = "Unknown"
	}
	t.Trace(t.buildEvent("service_monitoring", map[string]any{
		"service_name":   info.ServiceName,
		"http_url":       info.HTTPURL,
		"http_status":    info.HTTPStatus,
		"request_size":   info.RequestSize,
		"response_size":  info.ResponseSize,
		"http_latency":   info.HTTPLatency,
		"request_ts":     info.RequestTS,
		"response_ts":    info.ResponseTS,
		"req_id":         info.RequestID,
		"target_user_id": info.TargetUserID,
		"game_server_id": gameServerID,
		"current_state":  string(t.networkStatus()),
	}))
}

// NetworkStatusChanged records a connectivity transition, tracing a
// network_switch event when the state actually changed.
func (t *RUMTracer) NetworkStatusChanged(status NetworkStatus) {
	t.mu.Lock()
	t.previousStatus = t.currentStatus
	t.currentStatus = status
	source, current := t.previousStatus, t.currentStatus
	t.mu.Unlock()

	if source != current {
		t.TraceNetworkSwitch(string(source), string(current))
	}
}

// SetExtraProperty sets a property merged into every traced event.
func (t *RUMTracer) SetExtraProperty(key, value string) {
	t.extra.Set(key, value)
}

// EraseExtraProperty removes an extra property.
func (t *RUMTracer) EraseExtraProperty(key string) {
	t.extra.Erase(key)
}

func (t *RUMTracer) networkStatus() NetworkStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentStatus
}

func (t *RUMTracer) buildEvent(name string, custom map[string]any) Event {
	properties := map[string]any{
		"app_version": t.config.Device.AppVersion,
		"device":      t.config.Device.Model,
		"os":          t.config.Device.OS,
		"os_version":  t.config.Device.OSVersion,
		"carrier":     t.config.Device.Carrier,
	}
	for k, v := range custom {
		properties[k] = v
	}
	t.extra.MergeInto(properties)

	return Event{
		Name:        name,
		DataVersion: "1.0",
		Timestamp:   nowMillis(),
		AppID:       t.config.AppID,
		UserID:      t.session.UserID(),
		SessionID:   t.session.SessionID(),
		RUMID:       t.rumID,
		Properties:  properties,
	}
}
