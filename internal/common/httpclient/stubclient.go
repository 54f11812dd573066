package httpclient

import "net/http"

// StubCall records one request the stub received.
type StubCall struct {
	Method string
	Path   string
	Body   []byte
}

// StubClient is an in-memory RESTClientInterface for tests. Responses are
// keyed by "METHOD path"; unmatched requests return a 404 HTTPError. All
// received calls are recorded in order.
type StubClient struct {
	responses map[string][]byte
	errors    map[string]error
	Calls     []StubCall
}

// NewStubClient creates an empty stub.
func NewStubClient() *StubClient {
	return &StubClient{
		responses: make(map[string][]byte),
		errors:    make(map[string]error),
	}
}

// Respond registers a canned response body for a method/path pair.
func (c *StubClient) Respond(method, path string, body []byte) {
	c.responses[method+" "+path] = body
}

// Fail registers an error for a method/path pair.
func (c *StubClient) Fail(method, path string, err error) {
	c.errors[method+" "+path] = err
}

func (c *StubClient) lookup(method, path string, body []byte) ([]byte, error) {
	c.Calls = append(c.Calls, StubCall{Method: method, Path: path, Body: body})
	key := method + " " + path
	if err, ok := c.errors[key]; ok {
		return nil, err
	}
	if resp, ok := c.responses[key]; ok {
		return resp, nil
	}
	return nil, &HTTPError{StatusCode: http.StatusNotFound, Message: "no stub for " + key}
}

// Post implements RESTClientInterface.
func (c *StubClient) Post(path string, body []byte) (*Response, error) {
	raw, err := c.lookup(http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return NewResponse(raw), nil
}

// Get implements RESTClientInterface.
func (c *StubClient) Get(path string) (*Response, error) {
	raw, err := c.lookup(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return NewResponse(raw), nil
}

// Delete implements RESTClientInterface.
func (c *StubClient) Delete(path string) error {
	_, err := c.lookup(http.MethodDelete, path, nil)
	return err
}
