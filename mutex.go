package funplus

import "sync"

// Mutex provides mutual exclusion for serialized critical sections.
type Mutex struct {
	mu sync.Mutex
}

// NewMutex creates a new mutex
func NewMutex() *Mutex {
	return &Mutex{}
}

// RunAtomic executes a task with exclusive lock
func (m *Mutex) RunAtomic(task func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return task()
}

// TryRunAtomic executes the task only when the lock is free, reporting
// whether it ran. Used to make competing flush requests no-ops instead
// of queueing behind an in-flight one.
func (m *Mutex) TryRunAtomic(task func()) bool {
	if !m.mu.TryLock() {
		return false
	}
	defer m.mu.Unlock()
	task()
	return true
}
