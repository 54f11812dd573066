package room

import (
	"github.com/go-playground/validator/v10"
)

var sessionValidator *validator.Validate

// V returns the package validator, creating it and registering the enum
// validators on first use.
func V() *validator.Validate {
	if sessionValidator == nil {
		sessionValidator = validator.New(validator.WithRequiredStructEnabled())
		registerEnumValidators(sessionValidator)
	}
	return sessionValidator
}

var enumTags = map[string]struct{}{
	"mediaMode":     {},
	"recordingMode": {},
	"outputMode":    {},
	"role":          {},
}

func isEnumTag(tag string) bool {
	_, ok := enumTags[tag]
	return ok
}

func registerEnumValidators(v *validator.Validate) {
	v.RegisterValidation("mediaMode", func(fl validator.FieldLevel) bool {
		_, ok := validMediaModes[MediaMode(fl.Field().String())]
		return ok
	})
	v.RegisterValidation("recordingMode", func(fl validator.FieldLevel) bool {
		_, ok := validRecordingModes[RecordingMode(fl.Field().String())]
		return ok
	})
	v.RegisterValidation("outputMode", func(fl validator.FieldLevel) bool {
		_, ok := validOutputModes[OutputMode(fl.Field().String())]
		return ok
	})
	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := validRoles[Role(fl.Field().String())]
		return ok
	})
}
