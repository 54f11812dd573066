package room

import (
	"github.com/tidwall/gjson"

	"github.com/roomforge/roomforge-go/internal/common/httpclient"
)

// ClientConfig holds the server endpoint and credentials for a RoomForge
// deployment. It satisfies the transport's Configurator interface.
type ClientConfig struct {
	ServerURL string
	APISecret string
}

func (c ClientConfig) GetServerURL() string { return c.ServerURL }
func (c ClientConfig) GetAPISecret() string { return c.APISecret }

// Client is the entry point to a RoomForge server. It creates new sessions
// and adopts existing ones reported by the server.
type Client struct {
	rest httpclient.RESTClientInterface
}

// NewClient creates a client for the given deployment.
func NewClient(cfg ClientConfig) *Client {
	return &Client{rest: httpclient.NewClient(cfg)}
}

// NewClientWithTransport creates a client over an existing transport.
func NewClientWithTransport(rest httpclient.RESTClientInterface) *Client {
	return &Client{rest: rest}
}

// CreateSession creates a session on the server. A nil props uses
// DefaultSessionProperties.
func (c *Client) CreateSession(props *SessionProperties) (*Session, error) {
	return NewSession(c.rest, props)
}

// GetSession fetches one session by id and adopts its snapshot.
func (c *Client) GetSession(id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionFetch.New("session id is required")
	}
	resp, err := c.rest.Get(sessionsPath + "/" + id)
	if err != nil {
		return nil, ErrSessionFetch.Err(err)
	}
	snapshot, err := resp.Map("")
	if err != nil {
		return nil, ErrSessionFetch.Err(err)
	}
	return AdoptSession(c.rest, snapshot)
}

// ListSessions fetches every active session on the server and adopts each
// reported snapshot. The response shape matches the connection collection:
// {numberOfElements, content: [session snapshots]}.
func (c *Client) ListSessions() ([]*Session, error) {
	resp, err := c.rest.Get(sessionsPath)
	if err != nil {
		return nil, ErrSessionFetch.Err(err)
	}

	content := gjson.GetBytes(resp.Raw(), "content")
	if !content.Exists() || !content.IsArray() {
		return nil, ErrSessionFetch.Err(httpclient.ErrResponseField.New("missing field: content"))
	}

	var sessions []*Session
	for _, entry := range content.Array() {
		snapshot, ok := entry.Value().(map[string]any)
		if !ok {
			return nil, ErrSessionFetch.Err(httpclient.ErrResponseField.New("session entry is not an object"))
		}
		s, err := AdoptSession(c.rest, snapshot)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
