package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomforge/roomforge-go/internal/common/httpclient"
)

func emptySnapshot(sessionID string) map[string]any {
	return map[string]any{
		"sessionId":         sessionID,
		"recording":         false,
		"mediaMode":         "ROUTED",
		"recordingMode":     "MANUAL",
		"defaultOutputMode": "COMPOSED",
		"connections": map[string]any{
			"numberOfElements": 0,
			"content":          []any{},
		},
	}
}

func connectionEntry(id string, publishers []string, subscribers []string) map[string]any {
	pubs := make([]any, 0, len(publishers))
	for _, streamID := range publishers {
		pubs = append(pubs, map[string]any{"streamId": streamID})
	}
	subs := make([]any, 0, len(subscribers))
	for _, streamID := range subscribers {
		subs = append(subs, map[string]any{"streamId": streamID})
	}
	return map[string]any{
		"connectionId": id,
		"publishers":   pubs,
		"subscribers":  subs,
	}
}

func snapshotWithConnections(sessionID string, conns ...map[string]any) map[string]any {
	m := emptySnapshot(sessionID)
	content := make([]any, 0, len(conns))
	for _, c := range conns {
		content = append(content, c)
	}
	m["connections"] = map[string]any{
		"numberOfElements": len(content),
		"content":          content,
	}
	return m
}

func TestReconcileFreshState(t *testing.T) {
	s := newSession(httpclient.NewStubClient())

	snapshot := emptySnapshot("s1")
	snapshot["recording"] = true
	require.NoError(t, s.Reconcile(snapshot))

	assert.Equal(t, "s1", s.ID())
	assert.True(t, s.HasID())
	assert.True(t, s.Recording())
	assert.Equal(t, MediaModeRouted, s.Properties().MediaMode())
	assert.Equal(t, RecordingModeManual, s.Properties().RecordingMode())
	assert.Equal(t, OutputModeComposed, s.Properties().DefaultOutputMode())
	assert.Equal(t, 0, s.ActiveConnections())
}

func TestReconcileRebuildsConnections(t *testing.T) {
	s := newSession(httpclient.NewStubClient())
	require.NoError(t, s.Reconcile(snapshotWithConnections("s1",
		connectionEntry("conA", []string{"p1"}, nil),
		connectionEntry("conB", nil, []string{"p1"}),
	)))
	assert.Equal(t, 2, s.ActiveConnections())

	// full replace: conA disappears, conC appears
	require.NoError(t, s.Reconcile(snapshotWithConnections("s1",
		connectionEntry("conB", nil, nil),
		connectionEntry("conC", []string{"p2"}, nil),
	)))
	assert.Equal(t, 2, s.ActiveConnections())
	_, ok := s.Connection("conA")
	assert.False(t, ok)
	c, ok := s.Connection("conC")
	require.True(t, ok)
	assert.Equal(t, "conC", c.ID)
	assert.Equal(t, []string{"p2"}, c.PublishedStreamIDs())
}

func TestReconcileMergePolicies(t *testing.T) {
	t.Run("customSessionId is local-wins", func(t *testing.T) {
		s := newSession(httpclient.NewStubClient())
		s.properties.customSessionID = "my-room"

		snapshot := emptySnapshot("s1")
		require.NoError(t, s.Reconcile(snapshot))
		assert.Equal(t, "my-room", s.Properties().CustomSessionID())

		// even a snapshot carrying a different value does not clobber it
		snapshot["customSessionId"] = "server-room"
		require.NoError(t, s.Reconcile(snapshot))
		assert.Equal(t, "my-room", s.Properties().CustomSessionID())
	})

	t.Run("customSessionId adopted when local unset", func(t *testing.T) {
		s := newSession(httpclient.NewStubClient())
		snapshot := emptySnapshot("s1")
		snapshot["customSessionId"] = "server-room"
		require.NoError(t, s.Reconcile(snapshot))
		assert.Equal(t, "server-room", s.Properties().CustomSessionID())
	})

	t.Run("optional layouts overwrite only when present", func(t *testing.T) {
		s := newSession(httpclient.NewStubClient())
		snapshot := emptySnapshot("s1")
		snapshot["defaultRecordingLayout"] = "CUSTOM"
		snapshot["defaultCustomLayout"] = "layout-v1"
		require.NoError(t, s.Reconcile(snapshot))
		assert.Equal(t, RecordingLayoutCustom, s.Properties().DefaultRecordingLayout())
		assert.Equal(t, "layout-v1", s.Properties().DefaultCustomLayout())

		// snapshot omitting them preserves prior values
		require.NoError(t, s.Reconcile(emptySnapshot("s1")))
		assert.Equal(t, RecordingLayoutCustom, s.Properties().DefaultRecordingLayout())
		assert.Equal(t, "layout-v1", s.Properties().DefaultCustomLayout())

		// a new value overwrites the prior one
		snapshot["defaultCustomLayout"] = "layout-v2"
		require.NoError(t, s.Reconcile(snapshot))
		assert.Equal(t, "layout-v2", s.Properties().DefaultCustomLayout())
	})

	t.Run("required config fields always overwrite", func(t *testing.T) {
		s := newSession(httpclient.NewStubClient())
		require.NoError(t, s.Reconcile(emptySnapshot("s1")))

		snapshot := emptySnapshot("s1")
		snapshot["mediaMode"] = "RELAYED"
		snapshot["recordingMode"] = "ALWAYS"
		snapshot["defaultOutputMode"] = "INDIVIDUAL"
		require.NoError(t, s.Reconcile(snapshot))
		assert.Equal(t, MediaModeRelayed, s.Properties().MediaMode())
		assert.Equal(t, RecordingModeAlways, s.Properties().RecordingMode())
		assert.Equal(t, OutputModeIndividual, s.Properties().DefaultOutputMode())
	})
}

func TestReconcileCreatedAtPreservedWhenAbsent(t *testing.T) {
	s := newSession(httpclient.NewStubClient())

	snapshot := emptySnapshot("s1")
	snapshot["createdAt"] = int64(1700000000000)
	require.NoError(t, s.Reconcile(snapshot))
	created := s.CreatedAt()
	assert.False(t, created.IsZero())

	require.NoError(t, s.Reconcile(emptySnapshot("s1")))
	assert.Equal(t, created, s.CreatedAt())
}

func TestReconcileRejectsMalformedSnapshots(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m map[string]any)
		wantErr error
	}{
		{"missing sessionId", func(m map[string]any) { delete(m, "sessionId") }, ErrInvalidSnapshot},
		{"missing recording", func(m map[string]any) { delete(m, "recording") }, ErrInvalidSnapshot},
		{"missing mediaMode", func(m map[string]any) { delete(m, "mediaMode") }, ErrInvalidSnapshot},
		{"missing connections", func(m map[string]any) { delete(m, "connections") }, ErrInvalidSnapshot},
		{"missing connection content", func(m map[string]any) {
			m["connections"] = map[string]any{"numberOfElements": 0}
		}, ErrInvalidSnapshot},
		{"unrecognized mediaMode", func(m map[string]any) { m["mediaMode"] = "HYBRID" }, ErrInvalidEnumValue},
		{"unrecognized recordingMode", func(m map[string]any) { m["recordingMode"] = "SOMETIMES" }, ErrInvalidEnumValue},
		{"unrecognized outputMode", func(m map[string]any) { m["defaultOutputMode"] = "MIXED" }, ErrInvalidEnumValue},
		{"unrecognized optional layout", func(m map[string]any) { m["defaultRecordingLayout"] = "DIAGONAL" }, ErrInvalidEnumValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(httpclient.NewStubClient())
			require.NoError(t, s.Reconcile(snapshotWithConnections("before",
				connectionEntry("conA", []string{"p1"}, nil),
			)))

			bad := emptySnapshot("after")
			tt.mutate(bad)
			err := s.Reconcile(bad)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			// validate-then-apply: nothing was mutated
			assert.Equal(t, "before", s.ID())
			assert.Equal(t, 1, s.ActiveConnections())
		})
	}
}

func TestReconcileRejectsDuplicateConnectionIDs(t *testing.T) {
	s := newSession(httpclient.NewStubClient())
	err := s.Reconcile(snapshotWithConnections("s1",
		connectionEntry("conA", nil, nil),
		connectionEntry("conA", nil, nil),
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestConnectionMapKeyConsistency(t *testing.T) {
	s := newSession(httpclient.NewStubClient())
	require.NoError(t, s.Reconcile(snapshotWithConnections("s1",
		connectionEntry("conA", nil, nil),
		connectionEntry("conB", []string{"p1"}, nil),
	)))
	for key, c := range s.Connections() {
		assert.Equal(t, key, c.ID)
	}
}
