package room

import (
	"time"

	"github.com/samber/lo"
)

// Publisher is an outbound media stream owned by a connection.
type Publisher struct {
	StreamID        string `json:"streamId"`
	HasAudio        bool   `json:"hasAudio"`
	HasVideo        bool   `json:"hasVideo"`
	AudioActive     bool   `json:"audioActive"`
	VideoActive     bool   `json:"videoActive"`
	TypeOfVideo     string `json:"typeOfVideo,omitempty"`
	FrameRate       int    `json:"frameRate,omitempty"`
	VideoDimensions string `json:"videoDimensions,omitempty"`
}

// Subscriber is a reference to another connection's published stream. The
// stream is not owned: when its publisher's connection goes away the cascade
// in ForceDisconnect drops the reference.
type Subscriber struct {
	StreamID string `json:"streamId"`
}

// Connection is a participant's link into the session. It owns its publishers;
// its subscribers reference streams published elsewhere in the session.
type Connection struct {
	ID          string       `json:"connectionId"`
	CreatedAt   time.Time    `json:"-"`
	Role        Role         `json:"role,omitempty"`
	Token       string       `json:"token,omitempty"`
	Platform    string       `json:"platform,omitempty"`
	ClientData  string       `json:"clientData,omitempty"`
	ServerData  string       `json:"serverData,omitempty"`
	Publishers  []Publisher  `json:"publishers"`
	Subscribers []Subscriber `json:"subscribers"`
}

// PublishedStreamIDs returns the stream ids this connection publishes.
func (c *Connection) PublishedStreamIDs() []string {
	return lo.Map(c.Publishers, func(p Publisher, _ int) string {
		return p.StreamID
	})
}

// SubscribesTo reports whether the connection subscribes to the given stream.
func (c *Connection) SubscribesTo(streamID string) bool {
	return lo.ContainsBy(c.Subscribers, func(s Subscriber) bool {
		return s.StreamID == streamID
	})
}

// dropSubscribersOf removes every subscriber entry referencing streamID.
// Returns true if anything was removed.
func (c *Connection) dropSubscribersOf(streamID string) bool {
	before := len(c.Subscribers)
	c.Subscribers = lo.Filter(c.Subscribers, func(s Subscriber, _ int) bool {
		return s.StreamID != streamID
	})
	return len(c.Subscribers) != before
}
