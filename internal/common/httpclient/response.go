package httpclient

import (
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/roomforge/roomforge-go/internal/common/apperrors"
)

// ErrResponseField indicates a response body missing an expected field or
// carrying it with the wrong type.
var ErrResponseField apperrors.Error = apperrors.New("malformed server response").SetStatusCode(http.StatusBadGateway)

// Response wraps a JSON response body and exposes typed field extraction.
// Field paths use gjson syntax, so nested lookups like "connections.content"
// work directly.
type Response struct {
	body []byte
}

// NewResponse wraps a raw JSON body.
func NewResponse(body []byte) *Response {
	return &Response{body: body}
}

// Raw returns the raw response body.
func (r *Response) Raw() []byte {
	return r.body
}

// String extracts a string field.
func (r *Response) String(field string) (string, error) {
	v := gjson.GetBytes(r.body, field)
	if !v.Exists() {
		return "", ErrResponseField.New("missing field: " + field)
	}
	if v.Type != gjson.String {
		return "", ErrResponseField.New("field is not a string: " + field)
	}
	return v.String(), nil
}

// Bool extracts a boolean field.
func (r *Response) Bool(field string) (bool, error) {
	v := gjson.GetBytes(r.body, field)
	if !v.Exists() {
		return false, ErrResponseField.New("missing field: " + field)
	}
	if v.Type != gjson.True && v.Type != gjson.False {
		return false, ErrResponseField.New("field is not a boolean: " + field)
	}
	return v.Bool(), nil
}

// Int extracts an integer field.
func (r *Response) Int(field string) (int64, error) {
	v := gjson.GetBytes(r.body, field)
	if !v.Exists() {
		return 0, ErrResponseField.New("missing field: " + field)
	}
	if v.Type != gjson.Number {
		return 0, ErrResponseField.New("field is not a number: " + field)
	}
	return v.Int(), nil
}

// Map decodes the whole body, or a named object field, into a generic map.
func (r *Response) Map(field string) (map[string]any, error) {
	v := gjson.ParseBytes(r.body)
	if field != "" {
		v = v.Get(field)
		if !v.Exists() {
			return nil, ErrResponseField.New("missing field: " + field)
		}
	}
	if !v.IsObject() {
		return nil, ErrResponseField.New("field is not an object: " + field)
	}
	m, ok := v.Value().(map[string]any)
	if !ok {
		return nil, ErrResponseField.New("field is not an object: " + field)
	}
	return m, nil
}
