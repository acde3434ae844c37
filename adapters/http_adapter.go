package adapters

// HTTPResponse represents the response from an upload request.
type HTTPResponse struct {
	Status int
	Body   string
}

// HTTPAdapter is an interface for HTTP communication.
// Implement this interface to use custom HTTP clients.
type HTTPAdapter interface {
	// Post sends a raw request body to the specified URL.
	//
	// Parameters:
	//   - url: The full upload URL, including query parameters
	//   - body: The raw request body
	//
	// Returns the HTTP response or an error for transport failures
	// (timeout, DNS failure, connection refused). Non-2xx statuses are
	// not errors; they are reported through the response.
	Post(url string, body []byte) (*HTTPResponse, error)
}
