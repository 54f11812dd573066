package room

import (
	"time"
)

// mergePolicy declares how one config field merges when a snapshot is
// reconciled into local state.
type mergePolicy int

const (
	// overwriteAlways: required field, the snapshot value always wins.
	overwriteAlways mergePolicy = iota
	// overwriteIfPresent: optional field, the snapshot wins only when it
	// carries the field.
	overwriteIfPresent
	// preserveLocal: a locally chosen value wins over whatever the snapshot
	// says; the snapshot value is only adopted when the local value is unset.
	preserveLocal
)

type configFieldMerge struct {
	name     string
	policy   mergePolicy
	present  func(dto *snapshotDTO) bool
	localSet func(p *SessionProperties) bool
	apply    func(p *SessionProperties, dto *snapshotDTO)
}

// configMergeTable declares the merge policy of every config field. The
// customSessionId entry is the one local-wins case: the client may have
// chosen it at creation time, and the server echoing an empty or stale value
// must not clobber it.
var configMergeTable = []configFieldMerge{
	{
		name:    "mediaMode",
		policy:  overwriteAlways,
		present: func(*snapshotDTO) bool { return true },
		apply: func(p *SessionProperties, dto *snapshotDTO) {
			p.mediaMode = MediaMode(dto.MediaMode)
		},
	},
	{
		name:    "recordingMode",
		policy:  overwriteAlways,
		present: func(*snapshotDTO) bool { return true },
		apply: func(p *SessionProperties, dto *snapshotDTO) {
			p.recordingMode = RecordingMode(dto.RecordingMode)
		},
	},
	{
		name:    "defaultOutputMode",
		policy:  overwriteAlways,
		present: func(*snapshotDTO) bool { return true },
		apply: func(p *SessionProperties, dto *snapshotDTO) {
			p.defaultOutputMode = OutputMode(dto.DefaultOutputMode)
		},
	},
	{
		name:    "defaultRecordingLayout",
		policy:  overwriteIfPresent,
		present: func(dto *snapshotDTO) bool { return !dto.DefaultRecordingLayout.IsNil() },
		apply: func(p *SessionProperties, dto *snapshotDTO) {
			p.defaultRecordingLayout = RecordingLayout(dto.DefaultRecordingLayout.String())
		},
	},
	{
		name:    "defaultCustomLayout",
		policy:  overwriteIfPresent,
		present: func(dto *snapshotDTO) bool { return !dto.DefaultCustomLayout.IsNil() },
		apply: func(p *SessionProperties, dto *snapshotDTO) {
			p.defaultCustomLayout = dto.DefaultCustomLayout.String()
		},
	},
	{
		name:     "customSessionId",
		policy:   preserveLocal,
		present:  func(dto *snapshotDTO) bool { return !dto.CustomSessionID.IsNil() },
		localSet: func(p *SessionProperties) bool { return p.customSessionID != "" },
		apply: func(p *SessionProperties, dto *snapshotDTO) {
			p.customSessionID = dto.CustomSessionID.String()
		},
	},
}

func applyConfigMerge(p *SessionProperties, dto *snapshotDTO) {
	for _, f := range configMergeTable {
		switch f.policy {
		case overwriteAlways:
			f.apply(p, dto)
		case overwriteIfPresent:
			if f.present(dto) {
				f.apply(p, dto)
			}
		case preserveLocal:
			if !f.localSet(p) && f.present(dto) {
				f.apply(p, dto)
			}
		}
	}
}

// connectionMap is the owned mapping from connection id to connection. All
// mutations go through put/remove so the key always equals the entry's own id.
type connectionMap map[string]*Connection

func (m connectionMap) put(c *Connection) error {
	if c == nil || c.ID == "" {
		return ErrInvalidSnapshot.New("connection without an id")
	}
	if _, exists := m[c.ID]; exists {
		return ErrInvalidSnapshot.New("duplicate connection id: " + c.ID)
	}
	m[c.ID] = c
	return nil
}

func (m connectionMap) remove(id string) (*Connection, bool) {
	c, ok := m[id]
	if ok {
		delete(m, id)
	}
	return c, ok
}

// buildConnections converts the snapshot's connection list into the owned map.
func buildConnections(content []connectionDTO) (connectionMap, error) {
	conns := make(connectionMap, len(content))
	for _, dto := range content {
		c := &Connection{
			ID:         dto.ConnectionID,
			Role:       Role(dto.Role),
			Token:      dto.Token,
			Platform:   dto.Platform,
			ClientData: dto.ClientData,
			ServerData: dto.ServerData,
		}
		if dto.CreatedAt != nil {
			c.CreatedAt = time.UnixMilli(*dto.CreatedAt)
		}
		for _, p := range dto.Publishers {
			c.Publishers = append(c.Publishers, Publisher{
				StreamID:        p.StreamID,
				HasAudio:        p.HasAudio,
				HasVideo:        p.HasVideo,
				AudioActive:     p.AudioActive,
				VideoActive:     p.VideoActive,
				TypeOfVideo:     p.TypeOfVideo,
				FrameRate:       p.FrameRate,
				VideoDimensions: p.VideoDimensions,
			})
		}
		for _, sub := range dto.Subscribers {
			c.Subscribers = append(c.Subscribers, Subscriber{StreamID: sub.StreamID})
		}
		if err := conns.put(c); err != nil {
			return nil, err
		}
	}
	return conns, nil
}

// Reconcile replaces local state from a full server snapshot. The snapshot is
// validated in its entirety first; on any failure the local model is left
// exactly as it was. Config fields merge per configMergeTable; the connection
// map is rebuilt wholesale, so connections absent from the snapshot disappear.
func (s *Session) Reconcile(snapshot map[string]any) error {
	dto, err := decodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	conns, err := buildConnections(dto.Connections.Content)
	if err != nil {
		return err
	}

	// Validation is complete; apply everything.
	s.id = dto.SessionID
	if dto.CreatedAt != nil {
		s.createdAt = time.UnixMilli(*dto.CreatedAt)
	}
	s.recording = *dto.Recording
	applyConfigMerge(&s.properties, dto)
	s.connections = conns
	return nil
}
