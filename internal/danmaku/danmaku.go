package danmaku

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Errors
var (
	ErrMalformed     = errors.New("malformed danmaku payload")
	ErrMissingField  = errors.New("missing required field")
	ErrNotJSONObject = errors.New("payload is not a JSON object")
)

// Danmaku is a single comment from the stream.
type Danmaku struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// Decode parses a text frame payload. Both fields must be present JSON strings
// under exactly the keys "user" and "text". Unknown fields are ignored.
func Decode(data []byte) (Danmaku, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Danmaku{}, fmt.Errorf("%w: %w", ErrMalformed, ErrNotJSONObject)
	}

	// A map keeps key matching exact; struct tags would match case-insensitively.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Danmaku{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	user, err := stringField(fields, "user")
	if err != nil {
		return Danmaku{}, err
	}
	text, err := stringField(fields, "text")
	if err != nil {
		return Danmaku{}, err
	}

	return Danmaku{User: user, Text: text}, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("%w: %w: %s", ErrMalformed, ErrMissingField, key)
	}

	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMalformed, key, err)
	}
	return v, nil
}
