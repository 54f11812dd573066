package room

// MediaMode controls how media flows through the server.
type MediaMode string

const (
	MediaModeRouted  MediaMode = "ROUTED"  // media is relayed through the server
	MediaModeRelayed MediaMode = "RELAYED" // peers exchange media directly
)

var validMediaModes = map[MediaMode]struct{}{
	MediaModeRouted:  {},
	MediaModeRelayed: {},
}

// RecordingMode controls when session recording starts.
type RecordingMode string

const (
	RecordingModeAlways RecordingMode = "ALWAYS" // recording starts with the session
	RecordingModeManual RecordingMode = "MANUAL" // recording starts on request
)

var validRecordingModes = map[RecordingMode]struct{}{
	RecordingModeAlways: {},
	RecordingModeManual: {},
}

// OutputMode controls how recorded streams are composed.
type OutputMode string

const (
	OutputModeComposed   OutputMode = "COMPOSED"   // all streams mixed into one file
	OutputModeIndividual OutputMode = "INDIVIDUAL" // one file per stream
)

var validOutputModes = map[OutputMode]struct{}{
	OutputModeComposed:   {},
	OutputModeIndividual: {},
}

// RecordingLayout selects the composed-recording layout.
type RecordingLayout string

const (
	RecordingLayoutBestFit                RecordingLayout = "BEST_FIT"
	RecordingLayoutPictureInPicture       RecordingLayout = "PICTURE_IN_PICTURE"
	RecordingLayoutVerticalPresentation   RecordingLayout = "VERTICAL_PRESENTATION"
	RecordingLayoutHorizontalPresentation RecordingLayout = "HORIZONTAL_PRESENTATION"
	RecordingLayoutCustom                 RecordingLayout = "CUSTOM"
)

var validRecordingLayouts = map[RecordingLayout]struct{}{
	RecordingLayoutBestFit:                {},
	RecordingLayoutPictureInPicture:       {},
	RecordingLayoutVerticalPresentation:   {},
	RecordingLayoutHorizontalPresentation: {},
	RecordingLayoutCustom:                 {},
}

// Role is the permission level a token grants a participant.
type Role string

const (
	RoleSubscriber Role = "SUBSCRIBER" // receive streams only
	RolePublisher  Role = "PUBLISHER"  // publish and receive streams
	RoleModerator  Role = "MODERATOR"  // publisher plus force-disconnect/unpublish
)

var validRoles = map[Role]struct{}{
	RoleSubscriber: {},
	RolePublisher:  {},
	RoleModerator:  {},
}

// ParseMediaMode validates and converts a wire value.
func ParseMediaMode(s string) (MediaMode, error) {
	m := MediaMode(s)
	if _, ok := validMediaModes[m]; !ok {
		return "", ErrInvalidEnumValue.New("unrecognized media mode: " + s)
	}
	return m, nil
}

// ParseRecordingMode validates and converts a wire value.
func ParseRecordingMode(s string) (RecordingMode, error) {
	m := RecordingMode(s)
	if _, ok := validRecordingModes[m]; !ok {
		return "", ErrInvalidEnumValue.New("unrecognized recording mode: " + s)
	}
	return m, nil
}

// ParseOutputMode validates and converts a wire value.
func ParseOutputMode(s string) (OutputMode, error) {
	m := OutputMode(s)
	if _, ok := validOutputModes[m]; !ok {
		return "", ErrInvalidEnumValue.New("unrecognized output mode: " + s)
	}
	return m, nil
}

// ParseRecordingLayout validates and converts a wire value.
func ParseRecordingLayout(s string) (RecordingLayout, error) {
	l := RecordingLayout(s)
	if _, ok := validRecordingLayouts[l]; !ok {
		return "", ErrInvalidEnumValue.New("unrecognized recording layout: " + s)
	}
	return l, nil
}

// ParseRole validates and converts a wire value.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := validRoles[r]; !ok {
		return "", ErrInvalidEnumValue.New("unrecognized role: " + s)
	}
	return r, nil
}
