package funplus

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/funplus/sdk-go/adapters"
)

// ProgressFunc is called after each upload attempt with the attempt's
// outcome, the batch size, and the count actually uploaded.
type ProgressFunc func(success bool, total, uploaded int)

// StreamClientConfig configures one event stream.
type StreamClientConfig struct {
	// Label uniquely identifies the stream; it also keys the durable
	// storage slot, so two streams never collide on disk.
	Label string

	Endpoint string
	Tag      string
	Key      string

	// UploadInterval is the periodic flush cadence. Zero disables the
	// timer entirely; flushes then happen only on explicit calls, on
	// batch-size pressure, and on lifecycle hooks.
	UploadInterval time.Duration

	// MaxQueueSize bounds the buffer; zero means MaxQueueSize (1024).
	MaxQueueSize int

	// MaxBatchSize caps one upload; zero means MaxBatchSize (100).
	MaxBatchSize int

	// Progress, when set, observes upload outcomes.
	Progress ProgressFunc
}

// StreamClient orchestrates one event stream end to end: it owns the
// stream's buffer and uploader, runs the periodic flush cycle, persists
// the buffer across process termination, and suppresses uploads while
// offline.
//
// All buffer mutations funnel through the client: traces append under
// the buffer's lock, and batch removal happens only inside the flush
// critical section, which admits at most one flush in flight.
type StreamClient struct {
	config   StreamClientConfig
	buffer   *EventBuffer
	uploader *Uploader
	storage  adapters.StorageAdapter
	logger   adapters.LoggerAdapter

	// flushMutex is the stream's ordering point: at most one flush in
	// flight, competing requests are no-ops.
	flushMutex *Mutex

	offline  atomic.Bool
	disposed atomic.Bool

	timerMu      sync.Mutex
	timerRunning bool
	ticker       *time.Ticker
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// NewStreamClient creates a stream client, restores any entries
// persisted by a previous process into the buffer, and clears the
// durable slot so a later crash cannot double-load them. The periodic
// timer starts immediately when an interval is configured.
func NewStreamClient(
	config StreamClientConfig,
	httpAdapter adapters.HTTPAdapter,
	storage adapters.StorageAdapter,
	logger adapters.LoggerAdapter,
) *StreamClient {
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = MaxBatchSize
	}
	if logger == nil {
		logger = adapters.NewNoOpLoggerAdapter()
	}

	c := &StreamClient{
		config:     config,
		buffer:     NewEventBuffer(config.MaxQueueSize),
		uploader:   NewUploader(config.Endpoint, config.Tag, config.Key, httpAdapter),
		storage:    storage,
		logger:     logger,
		flushMutex: NewMutex(),
	}

	c.restoreFromStorage()
	c.StartTimer()
	return c
}

// Label returns the stream's globally unique label.
func (c *StreamClient) Label() string {
	return c.config.Label
}

// Trace enqueues one event. The event is serialized to its canonical
// form here, so later mutation of shared context cannot affect it.
// Tracing is fire-and-forget: serialization failures are logged and the
// event is dropped.
func (c *StreamClient) Trace(event Event) {
	entry, err := event.Encode()
	if err != nil {
		c.logger.Warn("%s: dropping unencodable event %q: %v", c.config.Label, event.Name, err)
		return
	}
	c.TraceEntry(entry)
}

// TraceEntry enqueues one pre-serialized event string.
func (c *StreamClient) TraceEntry(entry string) {
	if c.disposed.Load() {
		return
	}
	c.buffer.Enqueue(entry)

	if c.buffer.Len() >= c.config.MaxBatchSize {
		go c.Flush()
	}
}

// TraceEntries enqueues a batch of pre-serialized event strings in order.
func (c *StreamClient) TraceEntries(entries []string) {
	for _, entry := range entries {
		c.TraceEntry(entry)
	}
}

// Flush uploads up to one batch of the oldest buffered events. It is a
// no-op when another flush is in flight, when the client is offline, or
// when the buffer is empty. On confirmed success the batch is removed
// from the buffer; on failure the buffer is left untouched so the next
// attempt retries the same events in the same order.
func (c *StreamClient) Flush() {
	c.flushMutex.TryRunAtomic(c.flush)
}

func (c *StreamClient) flush() {
	if c.offline.Load() || c.buffer.Len() == 0 {
		return
	}

	batch := c.buffer.Peek(c.config.MaxBatchSize)
	uploaded, err := c.uploader.Upload(batch)
	if err != nil {
		c.logger.Warn("%s: upload of %d events failed: %v", c.config.Label, len(batch), err)
		c.reportProgress(false, len(batch), 0)
		return
	}

	// Sustained overflow during the round trip may have evicted
	// part of the in-flight batch; in that case skip the removal
	// rather than drop events that were never uploaded.
	if uploaded <= c.buffer.Len() {
		c.buffer.RemovePrefix(uploaded)
	}
	c.logger.Debug("%s: uploaded %d events, %d remaining", c.config.Label, uploaded, c.buffer.Len())
	c.reportProgress(true, len(batch), uploaded)
}

func (c *StreamClient) reportProgress(success bool, total, uploaded int) {
	if c.config.Progress != nil {
		c.config.Progress(success, total, uploaded)
	}
}

// SetOnline records connectivity. While offline, Flush is a guaranteed
// no-op and the buffer keeps growing, bounded by its capacity.
func (c *StreamClient) SetOnline(online bool) {
	c.offline.Store(!online)
}

// PersistToStorage writes a snapshot of the buffer to the stream's
// durable slot. The in-memory buffer is left as-is: persistence is a
// side channel, not a drain. Durability is best effort; I/O failures
// are logged and swallowed.
func (c *StreamClient) PersistToStorage() {
	snapshot := c.buffer.Snapshot()
	if len(snapshot) == 0 {
		return
	}
	if err := c.storage.Save(snapshot); err != nil {
		c.logger.Warn("%s: failed to persist %d events: %v", c.config.Label, len(snapshot), err)
		return
	}
	c.logger.Debug("%s: %d entries archived", c.config.Label, len(snapshot))
}

func (c *StreamClient) restoreFromStorage() {
	entries, err := c.storage.Load()
	if err != nil {
		c.logger.Warn("%s: failed to restore archived events: %v", c.config.Label, err)
		return
	}
	if len(entries) > 0 {
		c.buffer.EnqueueBatch(entries)
		c.logger.Debug("%s: restored %d archived events", c.config.Label, len(entries))
	}
	if err := c.storage.Clear(); err != nil {
		c.logger.Warn("%s: failed to clear archive: %v", c.config.Label, err)
	}
}

// StartTimer starts the periodic flush timer. It is a no-op when the
// timer is already running, when the configured interval is zero, or
// after disposal.
func (c *StreamClient) StartTimer() {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()

	if c.timerRunning || c.config.UploadInterval <= 0 || c.disposed.Load() {
		return
	}
	c.timerRunning = true
	c.ticker = time.NewTicker(c.config.UploadInterval)
	c.stopChan = make(chan struct{})

	ticker, stop := c.ticker, c.stopChan
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ticker.C:
				c.Flush()
			case <-stop:
				return
			}
		}
	}()
}

// StopTimer stops the periodic flush timer. It is a no-op when the
// timer is not running.
func (c *StreamClient) StopTimer() {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()

	if !c.timerRunning {
		return
	}
	c.timerRunning = false
	c.ticker.Stop()
	close(c.stopChan)
}

// Dispose stops the timer, runs one final flush, and persists whatever
// remains. Unlike Flush, the final flush waits out any in-flight one
// instead of skipping. The client accepts no traces afterwards.
func (c *StreamClient) Dispose() {
	if !c.disposed.CompareAndSwap(false, true) {
		return
	}
	c.StopTimer()
	c.wg.Wait()
	c.flushMutex.RunAtomic(func() error {
		c.flush()
		return nil
	})
	c.PersistToStorage()
}

// DisposeWithoutFlush stops the timer and persists the buffer without a
// final upload attempt.
func (c *StreamClient) DisposeWithoutFlush() {
	if !c.disposed.CompareAndSwap(false, true) {
		return
	}
	c.StopTimer()
	c.wg.Wait()
	c.PersistToStorage()
}
