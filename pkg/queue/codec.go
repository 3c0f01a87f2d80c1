package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when a payload is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("payload is not valid UTF-8")

// Codec encodes and decodes message payloads. It must be symmetric: whatever Marshal
// produces for a Send must be accepted by Unmarshal on the receiving side.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec encodes payloads as UTF-8 JSON.
type JSONCodec struct{}

func (JSONCodec) ContentType() string {
	return "application/json"
}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	content, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not marshal message: %w", err)
	}

	return content, nil
}

// Unmarshal rejects payloads that are not valid UTF-8 instead of decoding them
// with replacement characters.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	if !utf8.Valid(data) {
		return fmt.Errorf("could not unmarshal message: %w", ErrInvalidUTF8)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("could not unmarshal message: %w", err)
	}

	return nil
}

// TypeName returns the name used for the queue and exchange of messages of type T.
func TypeName[T any]() (string, error) {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() == "" {
		return "", fmt.Errorf("%w: %s", ErrUnnamedMessageType, t.String())
	}

	return t.Name(), nil
}
