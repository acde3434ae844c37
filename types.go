package funplus

import (
	"fmt"

	"github.com/funplus/sdk-go/adapters"
)

// Re-export adapter types for convenience
type (
	HTTPAdapter    = adapters.HTTPAdapter
	HTTPResponse   = adapters.HTTPResponse
	StorageAdapter = adapters.StorageAdapter
	LoggerAdapter  = adapters.LoggerAdapter
	LogLevel       = adapters.LogLevel
)

// HTTPError reports an upload rejected by the log agent, either through
// an unexpected status code or a response body other than "OK".
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("log agent rejected upload: status=%d body=%q", e.Status, e.Body)
}
