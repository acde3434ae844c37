package funplus

import (
	"errors"
	"strconv"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/funplus/sdk-go/adapters"
)

// ErrMissingEventName rejects custom events submitted without a name.
var ErrMissingEventName = errors.New("funplus: event name is required")

// DataEventListener is notified whenever a BI event is traced.
type DataEventListener interface {
	KPIEventTraced(event Event)
	CustomEventTraced(event Event)
}

// PaymentInfo describes one completed purchase for TracePayment.
type PaymentInfo struct {
	// Amount is the cost in the monetary unit multiplied by 100.
	Amount float64
	// Currency is the 3-letter ISO 4217 code.
	Currency         string
	ProductID        string
	ProductName      string
	ProductType      string
	TransactionID    string
	PaymentProcessor string
	// ItemsReceived and CurrencyReceived are JSON array strings.
	ItemsReceived    string
	CurrencyReceived string
}

// DataTracer produces BI (business intelligence) events. KPI events
// (session lifecycle, new user, payment) and custom events flow into
// two independent streams with their own tags and buffers.
type DataTracer struct {
	config  Config
	kpi     *StreamClient
	custom  *StreamClient
	session *SessionManager
	extra   *ExtraProperties
	logger  adapters.LoggerAdapter

	mu        sync.Mutex
	listeners []DataEventListener
}

func newDataTracer(config Config, registry *Registry, session *SessionManager, logger adapters.LoggerAdapter) *DataTracer {
	t := &DataTracer{
		config:  config,
		session: session,
		extra:   NewExtraProperties(),
		logger:  logger,
	}
	t.kpi = registry.Client(StreamClientConfig{
		Label:          labelDataKPI,
		Endpoint:       config.LogServer,
		Tag:            config.AppID + ".core",
		Key:            config.AppKey,
		UploadInterval: interval(config.DataUploadInterval),
		Progress: func(success bool, total, uploaded int) {
			logger.Debug("data.core upload: success=%t uploaded=%d/%d", success, uploaded, total)
		},
	})
	t.custom = registry.Client(StreamClientConfig{
		Label:          labelDataCustom,
		Endpoint:       config.LogServer,
		Tag:            config.AppID + ".custom",
		Key:            config.AppKey,
		UploadInterval: interval(config.DataUploadInterval),
		Progress: func(success bool, total, uploaded int) {
			logger.Debug("data.custom upload: success=%t uploaded=%d/%d", success, uploaded, total)
		},
	})
	return t
}

// RegisterEventTracedListener adds a traced-event listener. Callers
// must not register the same listener twice.
func (t *DataTracer) RegisterEventTracedListener(l DataEventListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// TraceSessionStart traces a session_start KPI event.
func (t *DataTracer) TraceSessionStart() {
	t.traceKPI(t.buildEvent("session_start", nil))
}

// TraceSessionEnd traces a session_end KPI event. sessionLength is in
// seconds.
func (t *DataTracer) TraceSessionEnd(sessionLength int64) {
	t.traceKPI(t.buildEvent("session_end", map[string]any{
		"session_length": sessionLength,
	}))
}

// TraceNewUser traces a new_user KPI event.
func (t *DataTracer) TraceNewUser() {
	t.traceKPI(t.buildEvent("new_user", nil))
}

// TracePayment traces a payment KPI event.
func (t *DataTracer) TracePayment(p PaymentInfo) {
	t.traceKPI(t.buildEvent("payment", map[string]any{
		"amount":              strconv.FormatFloat(p.Amount, 'f', -1, 64),
		"currency":            p.Currency,
		"iap_product_id":      p.ProductID,
		"iap_product_name":    p.ProductName,
		"iap_product_type":    p.ProductType,
		"transaction_id":      p.TransactionID,
		"payment_processor":   p.PaymentProcessor,
		"c_items_received":    jsonArray(p.ItemsReceived, t.logger),
		"c_currency_received": jsonArray(p.CurrencyReceived, t.logger),
	}))
}

// TraceCustom traces a caller-built custom event. An event without a
// name is rejected at the boundary and never enters the buffer.
func (t *DataTracer) TraceCustom(event Event) error {
	if event.Name == "" {
		return ErrMissingEventName
	}
	t.custom.Trace(event)
	for _, l := range t.snapshotListeners() {
		l.CustomEventTraced(event)
	}
	return nil
}

// TraceCustomEvent builds and traces a custom event from a name and
// event-specific properties.
func (t *DataTracer) TraceCustomEvent(name string, properties map[string]any) error {
	if name == "" {
		return ErrMissingEventName
	}
	return t.TraceCustom(t.buildEvent(name, properties))
}

// SetExtraProperty sets a property merged into every traced event.
func (t *DataTracer) SetExtraProperty(key, value string) {
	t.extra.Set(key, value)
}

// EraseExtraProperty removes an extra property.
func (t *DataTracer) EraseExtraProperty(key string) {
	t.extra.Erase(key)
}

func (t *DataTracer) traceKPI(event Event) {
	t.kpi.Trace(event)
	for _, l := range t.snapshotListeners() {
		l.KPIEventTraced(event)
	}
}

func (t *DataTracer) snapshotListeners() []DataEventListener {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]DataEventListener(nil), t.listeners...)
}

func (t *DataTracer) buildEvent(name string, custom map[string]any) Event {
	properties := map[string]any{
		"app_version": t.config.Device.AppVersion,
		"device":      t.config.Device.Model,
		"os":          t.config.Device.OS,
		"os_version":  t.config.Device.OSVersion,
		"lang":        t.config.Device.AppLang,
		"install_ts":  millisString(t.config.InstallTimestamp),
	}
	for k, v := range custom {
		properties[k] = v
	}
	t.extra.MergeInto(properties)

	return Event{
		Name:        name,
		DataVersion: "2.0",
		Timestamp:   nowMillis(),
		AppID:       t.config.AppID,
		UserID:      t.session.UserID(),
		SessionID:   t.session.SessionID(),
		Properties:  properties,
	}
}

// SessionStarted implements SessionListener; sessions auto-trace their
// lifecycle as KPI events.
func (t *DataTracer) SessionStarted(userID, sessionID string, startTS int64) {
	t.TraceSessionStart()
}

// SessionEnded implements SessionListener.
func (t *DataTracer) SessionEnded(userID, sessionID string, startTS, sessionLength int64) {
	t.TraceSessionEnd(sessionLength)
}

// jsonArray parses a JSON array string into a value; malformed input
// yields an empty array rather than failing the trace.
func jsonArray(s string, logger adapters.LoggerAdapter) any {
	if s == "" {
		return []any{}
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		logger.Warn("unable to parse JSON array property: %v", err)
		return []any{}
	}
	return v
}
