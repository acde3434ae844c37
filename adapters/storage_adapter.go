package adapters

// StorageAdapter is an interface for durable event persistence.
// Entries are opaque serialized event strings; the pipeline never
// interprets persisted data. Implement this interface to use custom
// storage backends (database, Redis, S3, etc.).
type StorageAdapter interface {
	// Save overwrites the durable slot with the given entries.
	//
	// Returns error if save fails.
	Save(entries []string) error

	// Load retrieves persisted entries from storage. A missing slot is
	// not an error; it yields an empty slice.
	Load() ([]string, error)

	// Clear removes all persisted entries from storage.
	//
	// Returns error if clear fails.
	Clear() error
}
