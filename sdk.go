package funplus

import (
	"sync"
	"time"

	"github.com/funplus/sdk-go/adapters"
)

// Version is the SDK version reported inside log_entry events.
const Version = "4.1.0"

// LifecycleEvents is the surface the host application wires to its
// platform lifecycle hooks. The SDK never references platform
// notification APIs directly.
type LifecycleEvents interface {
	OnForeground()
	OnBackground()
	OnTerminate()
}

// SDK is the installed FunPlus SDK instance: the explicit context
// object owning the stream registry, session identity and tracers.
// Construct it once at startup with Install and pass it to producers.
type SDK struct {
	config    Config
	registry  *Registry
	session   *SessionManager
	data      *DataTracer
	rum       *RUMTracer
	collector *LogCollector
	consumer  *logConsumer

	disposeOnce sync.Once
}

// Ensure SDK implements LifecycleEvents interface
var _ LifecycleEvents = (*SDK)(nil)

// Install validates the configuration and constructs the SDK. This is
// the one operation allowed to fail synchronously: a config missing
// required fields returns an error before any stream client exists.
// Everything downstream degrades instead of failing.
func Install(config Config) (*SDK, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	diagnostics := config.Adapters.LoggerAdapter
	if diagnostics == nil {
		diagnostics = adapters.NewZerologLoggerAdapter(config.LogLevel)
	}

	session := NewSessionManager(config.AppID, "")
	collector := NewLogCollector(config, session, diagnostics)
	registry := NewRegistry(config.Adapters.HTTPAdapter, config.Adapters.StorageFactory, collector)

	s := &SDK{
		config:    config,
		registry:  registry,
		session:   session,
		collector: collector,
	}
	s.consumer = newLogConsumer(config, registry, collector)
	s.data = newDataTracer(config, registry, session, collector)
	s.rum = newRUMTracer(config, registry, session, collector)

	session.RegisterListener(s.data)
	session.StartSession(session.UserID())

	collector.Info("FunPlus SDK %s installed: appId=%s env=%s", Version, config.AppID, config.Environment)
	return s, nil
}

// Data returns the BI event tracer.
func (s *SDK) Data() *DataTracer {
	return s.data
}

// RUM returns the real-user-monitoring tracer.
func (s *SDK) RUM() *RUMTracer {
	return s.rum
}

// Sessions returns the session manager.
func (s *SDK) Sessions() *SessionManager {
	return s.session
}

// InstallDate returns the app's first-install time, from the configured
// InstallTimestamp or the install of this SDK instance.
func (s *SDK) InstallDate() time.Time {
	return time.UnixMilli(s.config.InstallTimestamp)
}

// SetNetworkStatus feeds the host's reachability signal into the SDK:
// it gates every stream's uploads and lets the RUM tracer record the
// transition.
func (s *SDK) SetNetworkStatus(status NetworkStatus) {
	online := status.Online()
	s.registry.Each(func(c *StreamClient) { c.SetOnline(online) })
	s.rum.NetworkStatusChanged(status)
}

// OnForeground resumes flush timers and starts a fresh session.
func (s *SDK) OnForeground() {
	s.session.StartSession(s.session.UserID())
	s.rum.TraceAppForeground()
	s.registry.Each(func(c *StreamClient) { c.StartTimer() })
}

// OnBackground traces the transition, ends the session, then flushes
// and checkpoints every stream while the process may still be killed.
func (s *SDK) OnBackground() {
	s.rum.TraceAppBackground()
	s.session.EndSession()
	s.registry.Each(func(c *StreamClient) {
		c.StopTimer()
		c.Flush()
		c.PersistToStorage()
	})
}

// OnTerminate persists every stream's remaining buffer. No upload is
// attempted; termination gives no time for network round trips.
func (s *SDK) OnTerminate() {
	s.consumer.consume()
	s.registry.Each(func(c *StreamClient) {
		c.StopTimer()
		c.PersistToStorage()
	})
}

// Dispose shuts the SDK down: the log consumer stops, every stream
// gets a final flush, and remaining events are persisted.
func (s *SDK) Dispose() {
	s.disposeOnce.Do(func() {
		s.session.EndSession()
		s.consumer.stop()
		s.registry.Dispose()
	})
}
