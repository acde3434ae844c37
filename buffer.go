package funplus

import (
	"fmt"
	"sync"
)

// MaxQueueSize is the default capacity of an event buffer.
const MaxQueueSize = 1024

// EventBuffer is a thread-safe bounded FIFO queue of serialized event
// strings. Insertion past capacity silently evicts the oldest entry,
// keeping the buffer a sliding window over recent events rather than a
// lossless log.
type EventBuffer struct {
	mu       sync.Mutex
	entries  []string
	capacity int
}

// NewEventBuffer creates an empty buffer with the given capacity.
// A capacity of zero or less falls back to MaxQueueSize.
func NewEventBuffer(capacity int) *EventBuffer {
	if capacity <= 0 {
		capacity = MaxQueueSize
	}
	return &EventBuffer{capacity: capacity}
}

// Enqueue appends one serialized event, evicting the oldest entry first
// when the buffer is at capacity.
func (b *EventBuffer) Enqueue(entry string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) >= b.capacity {
		b.entries = b.entries[1:]
	}
	b.entries = append(b.entries, entry)
}

// EnqueueBatch appends entries in order, applying the same eviction
// policy per entry. Not atomic across the batch.
func (b *EventBuffer) EnqueueBatch(entries []string) {
	for _, entry := range entries {
		b.Enqueue(entry)
	}
}

// Len returns the number of buffered entries.
func (b *EventBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Capacity returns the maximum number of buffered entries.
func (b *EventBuffer) Capacity() int {
	return b.capacity
}

// Peek returns a copy of up to the first n entries without removing them.
func (b *EventBuffer) Peek(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.entries) {
		n = len(b.entries)
	}
	return append([]string(nil), b.entries[:n]...)
}

// RemovePrefix removes the first n entries, used after a confirmed
// upload. Panics if n exceeds the buffer size: that is a programming
// error in the flush path, never a runtime condition.
func (b *EventBuffer) RemovePrefix(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.entries) {
		panic(fmt.Sprintf("funplus: RemovePrefix(%d) exceeds buffer size %d", n, len(b.entries)))
	}
	b.entries = append([]string(nil), b.entries[n:]...)
}

// RestorePrefix re-inserts previously removed entries at the front, so
// a failed batch is retried before newer events and chronological order
// is preserved. If the merge overflows capacity, the oldest entries are
// evicted, same as Enqueue.
func (b *EventBuffer) RestorePrefix(entries []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	merged := make([]string, 0, len(entries)+len(b.entries))
	merged = append(merged, entries...)
	merged = append(merged, b.entries...)
	if len(merged) > b.capacity {
		merged = merged[len(merged)-b.capacity:]
	}
	b.entries = merged
}

// Snapshot returns an immutable copy of the whole buffer for durable
// persistence without blocking further enqueues.
func (b *EventBuffer) Snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.entries...)
}
