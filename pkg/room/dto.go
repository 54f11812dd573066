package room

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/roomforge/roomforge-go/pkg/types"
)

// Wire DTOs for the session snapshot shape the server reports:
//
//	{sessionId, createdAt, recording, mediaMode, recordingMode,
//	 defaultOutputMode, defaultRecordingLayout?, defaultCustomLayout?,
//	 customSessionId?, connections: {numberOfElements, content: [...]}}
//
// Required fields and enum membership are validated before any state is
// touched, so a malformed snapshot can never leave the model half-updated.
type snapshotDTO struct {
	SessionID              string               `mapstructure:"sessionId" validate:"required"`
	CreatedAt              *int64               `mapstructure:"createdAt"`
	Recording              *bool                `mapstructure:"recording" validate:"required"`
	MediaMode              string               `mapstructure:"mediaMode" validate:"required,mediaMode"`
	RecordingMode          string               `mapstructure:"recordingMode" validate:"required,recordingMode"`
	DefaultOutputMode      string               `mapstructure:"defaultOutputMode" validate:"required,outputMode"`
	DefaultRecordingLayout types.NullableString `mapstructure:"defaultRecordingLayout"`
	DefaultCustomLayout    types.NullableString `mapstructure:"defaultCustomLayout"`
	CustomSessionID        types.NullableString `mapstructure:"customSessionId"`
	Connections            *connectionsDTO      `mapstructure:"connections" validate:"required"`
}

type connectionsDTO struct {
	NumberOfElements int             `mapstructure:"numberOfElements"`
	Content          []connectionDTO `mapstructure:"content" validate:"dive"`
}

type connectionDTO struct {
	ConnectionID string          `mapstructure:"connectionId" validate:"required"`
	CreatedAt    *int64          `mapstructure:"createdAt"`
	Role         string          `mapstructure:"role" validate:"omitempty,role"`
	Token        string          `mapstructure:"token"`
	Platform     string          `mapstructure:"platform"`
	ClientData   string          `mapstructure:"clientData"`
	ServerData   string          `mapstructure:"serverData"`
	Publishers   []publisherDTO  `mapstructure:"publishers" validate:"dive"`
	Subscribers  []subscriberDTO `mapstructure:"subscribers" validate:"dive"`
}

type publisherDTO struct {
	StreamID        string `mapstructure:"streamId" validate:"required"`
	HasAudio        bool   `mapstructure:"hasAudio"`
	HasVideo        bool   `mapstructure:"hasVideo"`
	AudioActive     bool   `mapstructure:"audioActive"`
	VideoActive     bool   `mapstructure:"videoActive"`
	TypeOfVideo     string `mapstructure:"typeOfVideo"`
	FrameRate       int    `mapstructure:"frameRate"`
	VideoDimensions string `mapstructure:"videoDimensions"`
}

type subscriberDTO struct {
	StreamID string `mapstructure:"streamId" validate:"required"`
}

// nullableStringHook lets mapstructure decode plain strings (and explicit
// nulls) into types.NullableString, preserving present-vs-absent.
func nullableStringHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(types.NullableString{}) {
		return data, nil
	}
	if data == nil {
		return types.NullString(), nil
	}
	if s, ok := data.(string); ok {
		return types.StringFrom(s), nil
	}
	return data, nil
}

// decodeSnapshot converts a raw snapshot map into a validated DTO. Returns
// ErrInvalidSnapshot for structural problems and ErrInvalidEnumValue when a
// field's value is outside its recognized set.
func decodeSnapshot(snapshot map[string]any) (*snapshotDTO, error) {
	var dto snapshotDTO
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &dto,
		WeaklyTypedInput: true,
		DecodeHook:       nullableStringHook,
	})
	if err != nil {
		return nil, ErrInvalidSnapshot.Err(err)
	}
	if err := decoder.Decode(snapshot); err != nil {
		return nil, ErrInvalidSnapshot.Err(err)
	}

	if err := V().Struct(&dto); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if isEnumTag(fe.Tag()) {
					return nil, ErrInvalidEnumValue.MsgErr("unrecognized "+fe.Tag()+" value", err)
				}
			}
		}
		return nil, ErrInvalidSnapshot.Err(err)
	}

	// Optional layout fields still have to hold recognized values when present.
	if !dto.DefaultRecordingLayout.IsNil() {
		if _, err := ParseRecordingLayout(dto.DefaultRecordingLayout.String()); err != nil {
			return nil, err
		}
	}

	if dto.Connections.Content == nil {
		return nil, ErrInvalidSnapshot.New("snapshot is missing connections.content")
	}

	return &dto, nil
}
