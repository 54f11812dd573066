// Package room models a media session managed by a remote RoomForge server.
// A Session owns the session identity, configuration snapshot, recording flag,
// and the live map of active connections with their publisher and subscriber
// stream references. The model synchronizes only when the caller asks: state
// changes flow through Reconcile (full replace from a server snapshot) and
// through the cascade in ForceDisconnect. Nothing polls in the background, and
// a Session is not safe for concurrent use without external locking.
package room

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/anand-gl/jsoncanonicalizer"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"

	"github.com/roomforge/roomforge-go/internal/common/httpclient"
	"github.com/roomforge/roomforge-go/internal/common/logtrace"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	sessionsPath = "api/sessions"
	tokensPath   = "api/tokens"
)

// Session is the local model of one remote media session. It is constructed
// once per remote session id and mutated in place by Reconcile and the
// cascade operations; it is never reused for a different session.
type Session struct {
	rest        httpclient.RESTClientInterface
	id          string
	createdAt   time.Time
	properties  SessionProperties
	recording   bool
	connections connectionMap
	logger      zerolog.Logger
}

// sessionCreateRequest is the body of a session creation call.
type sessionCreateRequest struct {
	MediaMode              string `json:"mediaMode"`
	RecordingMode          string `json:"recordingMode"`
	DefaultOutputMode      string `json:"defaultOutputMode"`
	DefaultRecordingLayout string `json:"defaultRecordingLayout"`
	DefaultCustomLayout    string `json:"defaultCustomLayout"`
	CustomSessionID        string `json:"customSessionId"`
}

func newSession(rest httpclient.RESTClientInterface) *Session {
	return &Session{
		rest:        rest,
		properties:  DefaultSessionProperties(),
		connections: make(connectionMap),
		logger:      logtrace.Component("room"),
	}
}

// NewSession creates a session on the server and returns its local model.
// A nil props uses DefaultSessionProperties. On transport failure no Session
// is returned; there is no half-constructed state to observe.
func NewSession(rest httpclient.RESTClientInterface, props *SessionProperties) (*Session, error) {
	s := newSession(rest)
	if props != nil {
		s.properties = *props
	}

	body, err := json.Marshal(sessionCreateRequest{
		MediaMode:              string(s.properties.mediaMode),
		RecordingMode:          string(s.properties.recordingMode),
		DefaultOutputMode:      string(s.properties.defaultOutputMode),
		DefaultRecordingLayout: string(s.properties.defaultRecordingLayout),
		DefaultCustomLayout:    s.properties.defaultCustomLayout,
		CustomSessionID:        s.properties.customSessionID,
	})
	if err != nil {
		return nil, ErrSessionCreation.Err(err)
	}

	resp, err := rest.Post(sessionsPath, body)
	if err != nil {
		return nil, ErrSessionCreation.Err(err)
	}
	id, err := resp.String("id")
	if err != nil {
		return nil, ErrSessionCreation.Err(err)
	}
	s.id = id
	if millis, err := resp.Int("createdAt"); err == nil {
		s.createdAt = time.UnixMilli(millis)
	}
	s.logger = s.logger.With().Str("session_id", s.id).Logger()
	s.logger.Debug().Msg("session created")
	return s, nil
}

// AdoptSession builds a session model directly from a server-reported
// snapshot without issuing a creation request. Used when listing sessions
// that already exist on the server.
func AdoptSession(rest httpclient.RESTClientInterface, snapshot map[string]any) (*Session, error) {
	s := newSession(rest)
	if err := s.Reconcile(snapshot); err != nil {
		return nil, err
	}
	s.logger = s.logger.With().Str("session_id", s.id).Logger()
	return s, nil
}

// ID returns the server-assigned session id, or "" before creation.
func (s *Session) ID() string {
	return s.id
}

// HasID reports whether the session has been assigned an id.
func (s *Session) HasID() bool {
	return s.id != ""
}

// CreatedAt returns the creation timestamp the server reported.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Properties returns the current configuration snapshot.
func (s *Session) Properties() SessionProperties {
	return s.properties
}

// Recording reports whether the session is being recorded.
func (s *Session) Recording() bool {
	return s.recording
}

// Connection returns the tracked connection with the given id, if any.
func (s *Session) Connection(id string) (*Connection, bool) {
	c, ok := s.connections[id]
	return c, ok
}

// Connections returns the tracked connections. The returned map is a copy;
// the entries are the live objects.
func (s *Session) Connections() map[string]*Connection {
	out := make(map[string]*Connection, len(s.connections))
	for id, c := range s.connections {
		out[id] = c
	}
	return out
}

// ActiveConnections returns the number of tracked connections.
func (s *Session) ActiveConnections() int {
	return len(s.connections)
}

// Refresh fetches the session from the server, reconciles local state from
// the response, and reports whether anything observable changed. Comparison
// is order-insensitive: both before and after states are serialized through
// the canonical snapshot shape.
func (s *Session) Refresh() (bool, error) {
	if !s.HasID() {
		return false, ErrSessionFetch.New("session has no id")
	}

	before, err := s.canonicalState()
	if err != nil {
		return false, ErrSessionFetch.Err(err)
	}

	resp, err := s.rest.Get(sessionsPath + "/" + s.id)
	if err != nil {
		return false, ErrSessionFetch.Err(err)
	}
	snapshot, err := resp.Map("")
	if err != nil {
		return false, ErrSessionFetch.Err(err)
	}
	if err := s.Reconcile(snapshot); err != nil {
		return false, err
	}

	after, err := s.canonicalState()
	if err != nil {
		return false, ErrSessionFetch.Err(err)
	}
	changed := !bytes.Equal(before, after)
	s.logger.Debug().Bool("changed", changed).Msg("session refreshed")
	return changed, nil
}

// ForceDisconnect disconnects a participant on the server, then removes the
// connection locally and cascades: every stream the removed connection was
// publishing is purged from every remaining connection's subscriber list, so
// no dangling references survive the call. A connection id the local model
// does not track is a valid no-op (the remote delete still happened); on
// transport failure local state is untouched.
func (s *Session) ForceDisconnect(connectionID string) error {
	if !s.HasID() {
		return ErrDisconnect.New("session has no id")
	}
	if connectionID == "" {
		return ErrDisconnect.New("connection id is required")
	}
	if err := s.rest.Delete(sessionsPath + "/" + s.id + "/connection/" + connectionID); err != nil {
		return ErrDisconnect.Err(err)
	}

	removed, ok := s.connections.remove(connectionID)
	if !ok {
		// Stale local state; the server knew the connection but we did not.
		s.logger.Debug().Str("connection_id", connectionID).Msg("disconnected untracked connection")
		return nil
	}

	dropped := 0
	for _, streamID := range removed.PublishedStreamIDs() {
		for _, c := range s.connections {
			if c.dropSubscribersOf(streamID) {
				dropped++
			}
		}
	}
	s.logger.Debug().
		Str("connection_id", connectionID).
		Int("publishers", len(removed.Publishers)).
		Int("subscriber_lists_updated", dropped).
		Msg("connection removed")
	return nil
}

// ForceUnpublish stops a published stream on the server. Unlike
// ForceDisconnect this deliberately does NOT touch local subscriber lists:
// callers observe the server-side effect by calling Refresh. The asymmetry is
// part of the API contract.
func (s *Session) ForceUnpublish(streamID string) error {
	if !s.HasID() {
		return ErrUnpublish.New("session has no id")
	}
	if streamID == "" {
		return ErrUnpublish.New("stream id is required")
	}
	if err := s.rest.Delete(sessionsPath + "/" + s.id + "/stream/" + streamID); err != nil {
		return ErrUnpublish.Err(err)
	}
	s.logger.Debug().Str("stream_id", streamID).Msg("stream unpublished")
	return nil
}

// IssueToken requests a participant token for this session. A nil opts uses
// DefaultTokenOptions. No local state is mutated.
func (s *Session) IssueToken(opts *TokenOptions) (string, error) {
	o := DefaultTokenOptions()
	if opts != nil {
		o = *opts
	}

	body := []byte(`{}`)
	var err error
	if body, err = sjson.SetBytes(body, "session", s.id); err != nil {
		return "", ErrToken.Err(err)
	}
	if body, err = sjson.SetBytes(body, "role", string(o.role)); err != nil {
		return "", ErrToken.Err(err)
	}
	if body, err = sjson.SetBytes(body, "data", o.data); err != nil {
		return "", ErrToken.Err(err)
	}
	if o.kurentoOptions != nil {
		if body, err = sjson.SetBytes(body, "kurentoOptions", o.kurentoOptions); err != nil {
			return "", ErrToken.Err(err)
		}
	}

	resp, err := s.rest.Post(tokensPath, body)
	if err != nil {
		return "", ErrToken.Err(err)
	}
	token, err := resp.String("id")
	if err != nil {
		return "", ErrToken.Err(err)
	}
	return token, nil
}

// Snapshot serializes the current state to the snapshot wire shape.
// Connections and their stream lists are emitted in sorted order so the
// result is deterministic regardless of map iteration; reconciling from the
// returned snapshot reproduces an observably equal session.
func (s *Session) Snapshot() map[string]any {
	m := map[string]any{
		"sessionId":         s.id,
		"recording":         s.recording,
		"mediaMode":         string(s.properties.mediaMode),
		"recordingMode":     string(s.properties.recordingMode),
		"defaultOutputMode": string(s.properties.defaultOutputMode),
	}
	if !s.createdAt.IsZero() {
		m["createdAt"] = s.createdAt.UnixMilli()
	}
	if s.properties.defaultRecordingLayout != "" {
		m["defaultRecordingLayout"] = string(s.properties.defaultRecordingLayout)
	}
	if s.properties.defaultCustomLayout != "" {
		m["defaultCustomLayout"] = s.properties.defaultCustomLayout
	}
	if s.properties.customSessionID != "" {
		m["customSessionId"] = s.properties.customSessionID
	}

	ids := make([]string, 0, len(s.connections))
	for id := range s.connections {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	content := make([]any, 0, len(ids))
	for _, id := range ids {
		content = append(content, connectionSnapshot(s.connections[id]))
	}
	m["connections"] = map[string]any{
		"numberOfElements": len(content),
		"content":          content,
	}
	return m
}

func connectionSnapshot(c *Connection) map[string]any {
	m := map[string]any{
		"connectionId": c.ID,
	}
	if !c.CreatedAt.IsZero() {
		m["createdAt"] = c.CreatedAt.UnixMilli()
	}
	if c.Role != "" {
		m["role"] = string(c.Role)
	}
	if c.Token != "" {
		m["token"] = c.Token
	}
	if c.Platform != "" {
		m["platform"] = c.Platform
	}
	if c.ClientData != "" {
		m["clientData"] = c.ClientData
	}
	if c.ServerData != "" {
		m["serverData"] = c.ServerData
	}

	pubs := append([]Publisher(nil), c.Publishers...)
	sort.Slice(pubs, func(i, j int) bool { return pubs[i].StreamID < pubs[j].StreamID })
	publishers := make([]any, 0, len(pubs))
	for _, p := range pubs {
		pm := map[string]any{
			"streamId":    p.StreamID,
			"hasAudio":    p.HasAudio,
			"hasVideo":    p.HasVideo,
			"audioActive": p.AudioActive,
			"videoActive": p.VideoActive,
		}
		if p.TypeOfVideo != "" {
			pm["typeOfVideo"] = p.TypeOfVideo
		}
		if p.FrameRate != 0 {
			pm["frameRate"] = p.FrameRate
		}
		if p.VideoDimensions != "" {
			pm["videoDimensions"] = p.VideoDimensions
		}
		publishers = append(publishers, pm)
	}
	m["publishers"] = publishers

	subs := append([]Subscriber(nil), c.Subscribers...)
	sort.Slice(subs, func(i, j int) bool { return subs[i].StreamID < subs[j].StreamID })
	subscribers := make([]any, 0, len(subs))
	for _, sub := range subs {
		subscribers = append(subscribers, map[string]any{"streamId": sub.StreamID})
	}
	m["subscribers"] = subscribers
	return m
}

// canonicalState returns a deterministic serialization of the current state,
// used by Refresh to detect observable changes.
func (s *Session) canonicalState() ([]byte, error) {
	raw, err := json.Marshal(s.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize state: %w", err)
	}
	return jsoncanonicalizer.Transform(raw)
}
