package funplus

import (
	"fmt"
	"sync"
	"time"

	"github.com/funplus/sdk-go/adapters"
)

// LogCollector captures SDK-internal diagnostics as log_entry events
// for remote ingestion, forwarding each message to the host-facing
// diagnostics logger as well. It implements adapters.LoggerAdapter so
// every component logs through it transparently.
//
// Captured entries sit in a small in-memory list until a consumer
// drains them into the logger stream; the fire-and-forget contract
// holds here too, a full or failing sink never surfaces to callers.
type LogCollector struct {
	config Config
	inner  adapters.LoggerAdapter
	level  adapters.LogLevel

	session *SessionManager

	mu      sync.Mutex
	entries []string
}

// Ensure LogCollector implements LoggerAdapter interface
var _ adapters.LoggerAdapter = (*LogCollector)(nil)

// NewLogCollector wraps the diagnostics logger with log_entry capture
// at the given minimum level.
func NewLogCollector(config Config, session *SessionManager, inner adapters.LoggerAdapter) *LogCollector {
	return &LogCollector{
		config:  config,
		inner:   inner,
		level:   config.LogLevel,
		session: session,
	}
}

func (c *LogCollector) Debug(message string, args ...interface{}) {
	c.inner.Debug(message, args...)
	c.capture(adapters.LogLevelDebug, message, args...)
}

func (c *LogCollector) Info(message string, args ...interface{}) {
	c.inner.Info(message, args...)
	c.capture(adapters.LogLevelInfo, message, args...)
}

func (c *LogCollector) Warn(message string, args ...interface{}) {
	c.inner.Warn(message, args...)
	c.capture(adapters.LogLevelWarn, message, args...)
}

func (c *LogCollector) Error(message string, args ...interface{}) {
	c.inner.Error(message, args...)
	c.capture(adapters.LogLevelError, message, args...)
}

func (c *LogCollector) capture(level adapters.LogLevel, message string, args ...interface{}) {
	if level.Rank() < c.level.Rank() {
		return
	}
	entry, err := c.buildLogEntry(level, fmt.Sprintf(message, args...)).Encode()
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// The capture list is bounded the same way buffers are: under
	// sustained pressure old diagnostics give way to new ones.
	if len(c.entries) >= MaxQueueSize {
		c.entries = c.entries[1:]
	}
	c.entries = append(c.entries, entry)
}

// Drain returns all captured entries and empties the capture list.
func (c *LogCollector) Drain() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.entries
	c.entries = nil
	return entries
}

func (c *LogCollector) buildLogEntry(level adapters.LogLevel, log string) Event {
	return Event{
		Name:        "log_entry",
		DataVersion: "1.0",
		Timestamp:   nowMillis(),
		AppID:       c.config.AppID,
		UserID:      c.session.UserID(),
		SessionID:   c.session.SessionID(),
		RUMID:       c.config.Device.InstallID,
		Properties: map[string]any{
			"app_version": c.config.Device.AppVersion,
			"sdk_version": Version,
			"device":      c.config.Device.Model,
			"os":          c.config.Device.OS,
			"os_version":  c.config.Device.OSVersion,
			"log":         log,
			"log_level":   string(level),
		},
	}
}

// logConsumer drains the collector into the logger stream on a fixed
// cadence, piggybacking on the stream's own upload timer for delivery.
type logConsumer struct {
	collector *LogCollector
	client    *StreamClient
	ticker    *time.Ticker
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func newLogConsumer(config Config, registry *Registry, collector *LogCollector) *logConsumer {
	client := registry.Client(StreamClientConfig{
		Label:          labelLogger,
		Endpoint:       config.LogServer,
		Tag:            config.RUMTag,
		Key:            config.RUMKey,
		UploadInterval: interval(config.LoggerUploadInterval),
	})

	c := &logConsumer{
		collector: collector,
		client:    client,
		stopChan:  make(chan struct{}),
	}

	drainInterval := interval(config.LoggerUploadInterval)
	if drainInterval > 0 {
		c.ticker = time.NewTicker(drainInterval)
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			for {
				select {
				case <-c.ticker.C:
					c.consume()
				case <-c.stopChan:
					return
				}
			}
		}()
	}
	return c
}

func (c *logConsumer) consume() {
	c.client.TraceEntries(c.collector.Drain())
}

func (c *logConsumer) stop() {
	c.stopOnce.Do(func() {
		if c.ticker != nil {
			c.ticker.Stop()
		}
		close(c.stopChan)
		c.wg.Wait()
		c.consume()
	})
}
