package httpclient

// RESTClientInterface is the transport contract the session model consumes.
// The real client and the in-memory stub both satisfy it, so the state model
// can be exercised without a live server.
type RESTClientInterface interface {
	// Post issues a POST with a JSON body and returns the parsed response.
	Post(path string, body []byte) (*Response, error)

	// Get issues a GET and returns the parsed response.
	Get(path string) (*Response, error)

	// Delete issues a DELETE and returns any error that occurred.
	Delete(path string) error
}

// Compile-time checks that both implementations satisfy the interface.
var _ RESTClientInterface = &RESTClient{}
var _ RESTClientInterface = &StubClient{}
