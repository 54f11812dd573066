package room

// SessionProperties is the configuration snapshot a session is created with.
// Values are immutable once built; Reconcile replaces fields according to the
// per-field merge policy table in reconcile.go.
type SessionProperties struct {
	mediaMode              MediaMode
	recordingMode          RecordingMode
	defaultOutputMode      OutputMode
	defaultRecordingLayout RecordingLayout
	defaultCustomLayout    string
	customSessionID        string
}

// DefaultSessionProperties returns the configuration used when a session is
// created without explicit properties.
func DefaultSessionProperties() SessionProperties {
	return SessionProperties{
		mediaMode:              MediaModeRouted,
		recordingMode:          RecordingModeManual,
		defaultOutputMode:      OutputModeComposed,
		defaultRecordingLayout: RecordingLayoutBestFit,
	}
}

func (p SessionProperties) MediaMode() MediaMode { return p.mediaMode }

func (p SessionProperties) RecordingMode() RecordingMode { return p.recordingMode }

func (p SessionProperties) DefaultOutputMode() OutputMode { return p.defaultOutputMode }

func (p SessionProperties) DefaultRecordingLayout() RecordingLayout { return p.defaultRecordingLayout }

func (p SessionProperties) DefaultCustomLayout() string { return p.defaultCustomLayout }

func (p SessionProperties) CustomSessionID() string { return p.customSessionID }

// SessionPropertiesBuilder assembles SessionProperties. Zero fields fall back
// to the defaults from DefaultSessionProperties.
type SessionPropertiesBuilder struct {
	props SessionProperties
}

// NewSessionPropertiesBuilder returns a builder seeded with defaults.
func NewSessionPropertiesBuilder() *SessionPropertiesBuilder {
	return &SessionPropertiesBuilder{props: DefaultSessionProperties()}
}

func (b *SessionPropertiesBuilder) MediaMode(m MediaMode) *SessionPropertiesBuilder {
	b.props.mediaMode = m
	return b
}

func (b *SessionPropertiesBuilder) RecordingMode(m RecordingMode) *SessionPropertiesBuilder {
	b.props.recordingMode = m
	return b
}

func (b *SessionPropertiesBuilder) DefaultOutputMode(m OutputMode) *SessionPropertiesBuilder {
	b.props.defaultOutputMode = m
	return b
}

func (b *SessionPropertiesBuilder) DefaultRecordingLayout(l RecordingLayout) *SessionPropertiesBuilder {
	b.props.defaultRecordingLayout = l
	return b
}

func (b *SessionPropertiesBuilder) DefaultCustomLayout(layout string) *SessionPropertiesBuilder {
	b.props.defaultCustomLayout = layout
	return b
}

func (b *SessionPropertiesBuilder) CustomSessionID(id string) *SessionPropertiesBuilder {
	b.props.customSessionID = id
	return b
}

// Build returns the assembled properties.
func (b *SessionPropertiesBuilder) Build() SessionProperties {
	return b.props
}

// KurentoOptions carries media-relay constraints attached to a token.
type KurentoOptions struct {
	VideoMaxRecvBandwidth int      `json:"videoMaxRecvBandwidth,omitempty"`
	VideoMinRecvBandwidth int      `json:"videoMinRecvBandwidth,omitempty"`
	VideoMaxSendBandwidth int      `json:"videoMaxSendBandwidth,omitempty"`
	VideoMinSendBandwidth int      `json:"videoMinSendBandwidth,omitempty"`
	AllowedFilters        []string `json:"allowedFilters,omitempty"`
}

// TokenOptions configures a token issuance request.
type TokenOptions struct {
	role           Role
	data           string
	kurentoOptions *KurentoOptions
}

// DefaultTokenOptions returns the options used when a token is issued without
// explicit options: PUBLISHER role and no data payload.
func DefaultTokenOptions() TokenOptions {
	return TokenOptions{role: RolePublisher}
}

func (o TokenOptions) Role() Role { return o.role }

func (o TokenOptions) Data() string { return o.data }

func (o TokenOptions) KurentoOptions() *KurentoOptions { return o.kurentoOptions }

// TokenOptionsBuilder assembles TokenOptions.
type TokenOptionsBuilder struct {
	opts TokenOptions
}

// NewTokenOptionsBuilder returns a builder seeded with defaults.
func NewTokenOptionsBuilder() *TokenOptionsBuilder {
	return &TokenOptionsBuilder{opts: DefaultTokenOptions()}
}

func (b *TokenOptionsBuilder) Role(r Role) *TokenOptionsBuilder {
	b.opts.role = r
	return b
}

// Data sets an opaque payload the server echoes back on connection events.
func (b *TokenOptionsBuilder) Data(data string) *TokenOptionsBuilder {
	b.opts.data = data
	return b
}

func (b *TokenOptionsBuilder) KurentoOptions(k *KurentoOptions) *TokenOptionsBuilder {
	b.opts.kurentoOptions = k
	return b
}

// Build returns the assembled options.
func (b *TokenOptionsBuilder) Build() TokenOptions {
	return b.opts
}
