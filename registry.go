package funplus

import (
	"sync"

	"github.com/funplus/sdk-go/adapters"
)

// StorageFactory yields the durable storage slot for a stream label.
// Each label must map to its own slot; labels are the collision domain.
type StorageFactory func(label string) adapters.StorageAdapter

// Registry hands out at most one StreamClient per label for the life of
// the owning SDK instance. It is constructed once at install time and
// passed to producers explicitly; there is no hidden global state.
type Registry struct {
	httpAdapter adapters.HTTPAdapter
	newStorage  StorageFactory
	logger      adapters.LoggerAdapter

	mu      sync.Mutex
	clients map[string]*StreamClient
}

// NewRegistry creates an empty registry. The factory and adapters are
// shared by every client the registry constructs.
func NewRegistry(httpAdapter adapters.HTTPAdapter, newStorage StorageFactory, logger adapters.LoggerAdapter) *Registry {
	return &Registry{
		httpAdapter: httpAdapter,
		newStorage:  newStorage,
		logger:      logger,
		clients:     make(map[string]*StreamClient),
	}
}

// Client returns the stream client for config.Label, constructing it on
// first access. Construction happens at most once per label, also under
// concurrent first access; later calls ignore the config and return the
// cached instance.
func (r *Registry) Client(config StreamClientConfig) *StreamClient {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[config.Label]; ok {
		return client
	}
	client := NewStreamClient(config, r.httpAdapter, r.newStorage(config.Label), r.logger)
	r.clients[config.Label] = client
	return client
}

// Each calls fn for every constructed client. Cross-client operations
// are independent; fn must not call back into the registry.
func (r *Registry) Each(fn func(*StreamClient)) {
	r.mu.Lock()
	clients := make([]*StreamClient, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	for _, c := range clients {
		fn(c)
	}
}

// Dispose disposes every constructed client.
func (r *Registry) Dispose() {
	r.Each(func(c *StreamClient) { c.Dispose() })
}
