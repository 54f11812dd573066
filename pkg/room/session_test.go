package room

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/roomforge/roomforge-go/internal/common/httpclient"
)

func TestNewSession(t *testing.T) {
	stub := httpclient.NewStubClient()
	stub.Respond(http.MethodPost, sessionsPath, []byte(`{"id":"ses_123","createdAt":1700000000000}`))

	props := NewSessionPropertiesBuilder().
		MediaMode(MediaModeRelayed).
		CustomSessionID("my-room").
		Build()
	s, err := NewSession(stub, &props)
	require.NoError(t, err)
	assert.Equal(t, "ses_123", s.ID())
	assert.True(t, s.HasID())
	assert.False(t, s.CreatedAt().IsZero())
	assert.Equal(t, MediaModeRelayed, s.Properties().MediaMode())

	// creation request carries the full configuration
	require.Len(t, stub.Calls, 1)
	body := stub.Calls[0].Body
	assert.Equal(t, "RELAYED", gjson.GetBytes(body, "mediaMode").String())
	assert.Equal(t, "MANUAL", gjson.GetBytes(body, "recordingMode").String())
	assert.Equal(t, "COMPOSED", gjson.GetBytes(body, "defaultOutputMode").String())
	assert.Equal(t, "BEST_FIT", gjson.GetBytes(body, "defaultRecordingLayout").String())
	assert.Equal(t, "my-room", gjson.GetBytes(body, "customSessionId").String())
}

func TestNewSessionDefaultProperties(t *testing.T) {
	stub := httpclient.NewStubClient()
	stub.Respond(http.MethodPost, sessionsPath, []byte(`{"id":"ses_123"}`))

	s, err := NewSession(stub, nil)
	require.NoError(t, err)
	assert.Equal(t, MediaModeRouted, s.Properties().MediaMode())
	assert.Equal(t, RecordingModeManual, s.Properties().RecordingMode())
	assert.True(t, s.CreatedAt().IsZero())
}

func TestNewSessionTransportFailure(t *testing.T) {
	stub := httpclient.NewStubClient()
	cause := &httpclient.HTTPError{StatusCode: http.StatusBadGateway, Message: "upstream down"}
	stub.Fail(http.MethodPost, sessionsPath, cause)

	s, err := NewSession(stub, nil)
	assert.Nil(t, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionCreation)
	assert.ErrorIs(t, err, cause)
}

func TestNewSessionMalformedResponse(t *testing.T) {
	stub := httpclient.NewStubClient()
	stub.Respond(http.MethodPost, sessionsPath, []byte(`{"identifier":"nope"}`))

	_, err := NewSession(stub, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionCreation)
}

func TestAdoptSession(t *testing.T) {
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, snapshotWithConnections("ses_listed",
		connectionEntry("conA", []string{"p1"}, nil),
	))
	require.NoError(t, err)
	assert.Equal(t, "ses_listed", s.ID())
	assert.Equal(t, 1, s.ActiveConnections())
	assert.Empty(t, stub.Calls, "adoption must not touch the transport")
}

func TestAdoptSessionInvalidSnapshot(t *testing.T) {
	_, err := AdoptSession(httpclient.NewStubClient(), map[string]any{"sessionId": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestRefreshIdempotentSnapshot(t *testing.T) {
	snapshot := snapshotWithConnections("ses_1",
		connectionEntry("conA", []string{"p1"}, nil),
		connectionEntry("conB", nil, []string{"p1"}),
	)

	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, snapshot)
	require.NoError(t, err)

	// applying the same snapshot twice yields identical observable state
	before, err := s.canonicalState()
	require.NoError(t, err)
	require.NoError(t, s.Reconcile(snapshot))
	after, err := s.canonicalState()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	// and a refresh returning the same snapshot reports no change
	body, err := json.Marshal(snapshot)
	require.NoError(t, err)
	stub.Respond(http.MethodGet, sessionsPath+"/ses_1", body)

	changed, err := s.Refresh()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRefreshDetectsChange(t *testing.T) {
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, emptySnapshot("ses_1"))
	require.NoError(t, err)

	updated := snapshotWithConnections("ses_1", connectionEntry("conA", []string{"p1"}, nil))
	updated["recording"] = true
	body, err := json.Marshal(updated)
	require.NoError(t, err)
	stub.Respond(http.MethodGet, sessionsPath+"/ses_1", body)

	changed, err := s.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, s.Recording())
	assert.Equal(t, 1, s.ActiveConnections())
}

func TestRefreshTransportFailure(t *testing.T) {
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, emptySnapshot("ses_1"))
	require.NoError(t, err)

	cause := &httpclient.HTTPError{StatusCode: http.StatusNotFound, Message: "no such session"}
	stub.Fail(http.MethodGet, sessionsPath+"/ses_1", cause)

	_, err = s.Refresh()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionFetch)
	assert.ErrorIs(t, err, cause)
}

func TestRefreshWithoutID(t *testing.T) {
	s := newSession(httpclient.NewStubClient())
	_, err := s.Refresh()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionFetch)
}

func TestForceDisconnectCascades(t *testing.T) {
	// A publishes p1; B subscribes to it. Disconnecting A must leave B with
	// an empty subscriber list.
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, snapshotWithConnections("ses_1",
		connectionEntry("conA", []string{"p1"}, nil),
		connectionEntry("conB", nil, []string{"p1"}),
	))
	require.NoError(t, err)

	stub.Respond(http.MethodDelete, sessionsPath+"/ses_1/connection/conA", nil)
	require.NoError(t, s.ForceDisconnect("conA"))

	assert.Equal(t, 1, s.ActiveConnections())
	_, ok := s.Connection("conA")
	assert.False(t, ok)
	b, ok := s.Connection("conB")
	require.True(t, ok)
	assert.Empty(t, b.Publishers)
	assert.Empty(t, b.Subscribers)
}

func TestForceDisconnectCascadesAllPublishedStreams(t *testing.T) {
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, snapshotWithConnections("ses_1",
		connectionEntry("conA", []string{"p1", "p2"}, nil),
		connectionEntry("conB", []string{"p3"}, []string{"p1", "p3"}),
		connectionEntry("conC", nil, []string{"p2", "p3"}),
	))
	require.NoError(t, err)

	stub.Respond(http.MethodDelete, sessionsPath+"/ses_1/connection/conA", nil)
	require.NoError(t, s.ForceDisconnect("conA"))

	b, _ := s.Connection("conB")
	require.NotNil(t, b)
	assert.Equal(t, []Subscriber{{StreamID: "p3"}}, b.Subscribers)
	assert.Equal(t, []string{"p3"}, b.PublishedStreamIDs(), "unrelated publishers survive")

	c, _ := s.Connection("conC")
	require.NotNil(t, c)
	assert.Equal(t, []Subscriber{{StreamID: "p3"}}, c.Subscribers)
}

func TestForceDisconnectUntrackedIsNoOp(t *testing.T) {
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, snapshotWithConnections("ses_1",
		connectionEntry("conB", nil, []string{"p1"}),
	))
	require.NoError(t, err)

	stub.Respond(http.MethodDelete, sessionsPath+"/ses_1/connection/ghost", nil)
	require.NoError(t, s.ForceDisconnect("ghost"))

	// zero mutation to any other connection's subscribers
	b, ok := s.Connection("conB")
	require.True(t, ok)
	assert.Equal(t, []Subscriber{{StreamID: "p1"}}, b.Subscribers)
}

func TestForceDisconnectTransportFailureLeavesStateUntouched(t *testing.T) {
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, snapshotWithConnections("ses_1",
		connectionEntry("conA", []string{"p1"}, nil),
		connectionEntry("conB", nil, []string{"p1"}),
	))
	require.NoError(t, err)

	cause := &httpclient.HTTPError{StatusCode: http.StatusConflict, Message: "cannot disconnect"}
	stub.Fail(http.MethodDelete, sessionsPath+"/ses_1/connection/conA", cause)

	err = s.ForceDisconnect("conA")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDisconnect)

	assert.Equal(t, 2, s.ActiveConnections())
	b, _ := s.Connection("conB")
	assert.Equal(t, []Subscriber{{StreamID: "p1"}}, b.Subscribers)
}

func TestForceUnpublishDoesNotCascade(t *testing.T) {
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, snapshotWithConnections("ses_1",
		connectionEntry("conA", []string{"p1"}, nil),
		connectionEntry("conB", nil, []string{"p1"}),
	))
	require.NoError(t, err)

	stub.Respond(http.MethodDelete, sessionsPath+"/ses_1/stream/p1", nil)
	require.NoError(t, s.ForceUnpublish("p1"))

	// local model untouched until the next Refresh
	a, _ := s.Connection("conA")
	assert.Equal(t, []string{"p1"}, a.PublishedStreamIDs())
	b, _ := s.Connection("conB")
	assert.Equal(t, []Subscriber{{StreamID: "p1"}}, b.Subscribers)
}

func TestForceUnpublishTransportFailure(t *testing.T) {
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, emptySnapshot("ses_1"))
	require.NoError(t, err)

	cause := &httpclient.HTTPError{StatusCode: http.StatusNotFound, Message: "no such stream"}
	stub.Fail(http.MethodDelete, sessionsPath+"/ses_1/stream/p1", cause)

	err = s.ForceUnpublish("p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnpublish)
	assert.ErrorIs(t, err, cause)
}

func TestIssueToken(t *testing.T) {
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, emptySnapshot("ses_1"))
	require.NoError(t, err)

	stub.Respond(http.MethodPost, tokensPath, []byte(`{"id":"tok_abc"}`))

	opts := NewTokenOptionsBuilder().
		Role(RoleModerator).
		Data("user=alice").
		KurentoOptions(&KurentoOptions{VideoMaxRecvBandwidth: 1000, AllowedFilters: []string{"GStreamerFilter"}}).
		Build()
	token, err := s.IssueToken(&opts)
	require.NoError(t, err)
	assert.Equal(t, "tok_abc", token)

	require.Len(t, stub.Calls, 1)
	body := stub.Calls[0].Body
	assert.Equal(t, "ses_1", gjson.GetBytes(body, "session").String())
	assert.Equal(t, "MODERATOR", gjson.GetBytes(body, "role").String())
	assert.Equal(t, "user=alice", gjson.GetBytes(body, "data").String())
	assert.Equal(t, int64(1000), gjson.GetBytes(body, "kurentoOptions.videoMaxRecvBandwidth").Int())
}

func TestIssueTokenDefaults(t *testing.T) {
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, emptySnapshot("ses_1"))
	require.NoError(t, err)

	stub.Respond(http.MethodPost, tokensPath, []byte(`{"id":"tok_abc"}`))

	_, err = s.IssueToken(nil)
	require.NoError(t, err)

	body := stub.Calls[0].Body
	assert.Equal(t, "PUBLISHER", gjson.GetBytes(body, "role").String())
	assert.False(t, gjson.GetBytes(body, "kurentoOptions").Exists())
}

func TestIssueTokenTransportFailure(t *testing.T) {
	stub := httpclient.NewStubClient()
	s, err := AdoptSession(stub, emptySnapshot("ses_1"))
	require.NoError(t, err)

	cause := &httpclient.HTTPError{StatusCode: http.StatusUnauthorized, Message: "bad secret"}
	stub.Fail(http.MethodPost, tokensPath, cause)

	_, err = s.IssueToken(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToken)
	assert.ErrorIs(t, err, cause)
}

func TestSnapshotRoundTrip(t *testing.T) {
	stub := httpclient.NewStubClient()
	snapshot := snapshotWithConnections("ses_1",
		connectionEntry("conA", []string{"p1"}, nil),
		connectionEntry("conB", nil, []string{"p1"}),
	)
	snapshot["recording"] = true
	snapshot["createdAt"] = int64(1700000000000)
	snapshot["customSessionId"] = "my-room"
	snapshot["defaultCustomLayout"] = "layout-v1"

	s, err := AdoptSession(stub, snapshot)
	require.NoError(t, err)

	clone, err := AdoptSession(stub, s.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, s.ID(), clone.ID())
	assert.Equal(t, s.Recording(), clone.Recording())
	assert.Equal(t, s.CreatedAt(), clone.CreatedAt())
	assert.Equal(t, s.Properties(), clone.Properties())
	assert.Equal(t, s.Connections(), clone.Connections())

	want, err := s.canonicalState()
	require.NoError(t, err)
	got, err := clone.canonicalState()
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestForceDisconnectRequiresSessionID(t *testing.T) {
	stub := httpclient.NewStubClient()
	s := newSession(stub)

	err := s.ForceDisconnect("con_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDisconnect)
	assert.Empty(t, stub.Calls)
}

func TestForceUnpublishRequiresSessionID(t *testing.T) {
	stub := httpclient.NewStubClient()
	s := newSession(stub)

	err := s.ForceUnpublish("str_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnpublish)
	assert.Empty(t, stub.Calls)
}
