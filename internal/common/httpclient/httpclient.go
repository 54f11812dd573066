// Package httpclient provides the REST transport for talking to a RoomForge
// server. It handles authentication, request building, and response
// processing. Callers provide a Configurator for server URL and credentials;
// responses come back as *Response values with typed field extraction.
package httpclient

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/roomforge/roomforge-go/internal/common/uuid"
)

// Configurator supplies server configuration and credentials.
type Configurator interface {
	GetServerURL() string
	GetAPISecret() string
}

// ServerError is the error body a RoomForge server returns on failure.
type ServerError struct {
	Result int    `json:"result"` // result code from server
	Error  string `json:"error"`  // error message from server
}

// HTTPError represents a non-success response from the server.
type HTTPError struct {
	StatusCode int    // HTTP status code of the error
	Message    string // error message or raw response body
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// RESTClient makes authenticated HTTP requests to a RoomForge server.
type RESTClient struct {
	config     Configurator
	httpClient *http.Client
}

// ClientOptions contains options for configuring the REST client.
type ClientOptions struct {
	DisableCertValidation bool // if true, skips TLS certificate validation
}

// NewClient creates a REST client using the provided configuration.
func NewClient(config Configurator, opts ...ClientOptions) *RESTClient {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	return NewClientWithOptions(config, clientOpts)
}

// NewClientWithOptions creates a REST client with explicit options.
func NewClientWithOptions(config Configurator, opts ClientOptions) *RESTClient {
	httpClient := &http.Client{}

	if opts.DisableCertValidation {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
	}

	return &RESTClient{
		config:     config,
		httpClient: httpClient,
	}
}

// Post issues a POST with a JSON body and returns the parsed response.
func (c *RESTClient) Post(apiPath string, body []byte) (*Response, error) {
	raw, err := c.doRequest(http.MethodPost, apiPath, body)
	if err != nil {
		return nil, err
	}
	return NewResponse(raw), nil
}

// Get issues a GET and returns the parsed response.
func (c *RESTClient) Get(apiPath string) (*Response, error) {
	raw, err := c.doRequest(http.MethodGet, apiPath, nil)
	if err != nil {
		return nil, err
	}
	return NewResponse(raw), nil
}

// Delete issues a DELETE. The response body, if any, is discarded.
func (c *RESTClient) Delete(apiPath string) error {
	_, err := c.doRequest(http.MethodDelete, apiPath, nil)
	return err
}

// doRequest builds and executes a request against the configured server.
// Non-2xx statuses become *HTTPError, honoring the server's error body when
// it parses.
func (c *RESTClient) doRequest(method, apiPath string, body []byte) ([]byte, error) {
	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %v", err)
	}
	u.Path = path.Join(u.Path, apiPath)

	req, err := http.NewRequest(method, u.String(), bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.config.GetAPISecret() != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.GetAPISecret())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode >= 400 {
		var serverErr ServerError
		if err := json.Unmarshal(respBody, &serverErr); err == nil && serverErr.Error != "" {
			return nil, &HTTPError{
				StatusCode: resp.StatusCode,
				Message:    serverErr.Error,
			}
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, &HTTPError{
				StatusCode: resp.StatusCode,
				Message:    "server doesn't implement this endpoint",
			}
		}
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	return respBody, nil
}
