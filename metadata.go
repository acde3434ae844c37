package funplus

import "sync"

// ExtraProperties manages user-defined properties merged into every
// event a tracer builds. Safe for concurrent use.
type ExtraProperties struct {
	mu         sync.RWMutex
	properties map[string]string
}

// NewExtraProperties creates an empty property set.
func NewExtraProperties() *ExtraProperties {
	return &ExtraProperties{properties: make(map[string]string)}
}

// Set sets or overrides a property.
func (p *ExtraProperties) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.properties[key] = value
}

// Erase removes a property.
func (p *ExtraProperties) Erase(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.properties, key)
}

// Get returns a property value, or "" when unset.
func (p *ExtraProperties) Get(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.properties[key]
}

// MergeInto copies every property into dst, without overriding keys dst
// already has.
func (p *ExtraProperties) MergeInto(dst map[string]any) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for k, v := range p.properties {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}
