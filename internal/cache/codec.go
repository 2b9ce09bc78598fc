package cache

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"menu-service/internal/common/errors"
)

// Codec turns cached values into bytes and back
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte, v interface{}) error
}

const codecVersion byte = 1

var codecMagic = []byte{'M', 'C'}

type envelope struct {
	Shape   string          `cbor:"1,keyasint"`
	Payload cbor.RawMessage `cbor:"2,keyasint"`
}

// CBORCodec encodes values as a versioned CBOR envelope that records the Go
// shape of the payload. Decoding into a different shape, or bytes from a
// different version, fails with a serialization error.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBORCodec builds the default codec
func NewCBORCodec() (*CBORCodec, error) {
	enc, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		NilContainers: cbor.NilContainerAsEmpty,
	}.EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to build cbor encoder: %w", err)
	}

	dec, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("failed to build cbor decoder: %w", err)
	}

	return &CBORCodec{enc: enc, dec: dec}, nil
}

// Encode serializes v. Pointers are encoded as the value they point to.
func (c *CBORCodec) Encode(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, errors.SerializationError("cannot encode nil value", nil)
	}

	payload, err := c.enc.Marshal(v)
	if err != nil {
		return nil, errors.SerializationError("failed to encode payload", err)
	}

	body, err := c.enc.Marshal(envelope{
		Shape:   shapeOf(reflect.TypeOf(v)),
		Payload: payload,
	})
	if err != nil {
		return nil, errors.SerializationError("failed to encode envelope", err)
	}

	out := make([]byte, 0, len(codecMagic)+1+len(body))
	out = append(out, codecMagic...)
	out = append(out, codecVersion)
	return append(out, body...), nil
}

// Decode deserializes data into v, which must be a non-nil pointer
func (c *CBORCodec) Decode(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.SerializationError("decode target must be a non-nil pointer", nil)
	}

	header := len(codecMagic) + 1
	if len(data) < header {
		return errors.SerializationError("cached entry is truncated", nil)
	}
	if !bytes.Equal(data[:len(codecMagic)], codecMagic) {
		return errors.SerializationError("cached entry has an unknown format", nil)
	}
	if version := data[len(codecMagic)]; version != codecVersion {
		return errors.SerializationError("cached entry has an unsupported version", nil).
			WithContext("version", version)
	}

	var env envelope
	if err := c.dec.Unmarshal(data[header:], &env); err != nil {
		return errors.SerializationError("failed to decode envelope", err)
	}

	want := shapeOf(rv.Type())
	if env.Shape != want {
		return errors.SerializationError("cached entry has a different shape", nil).
			WithContext("stored", env.Shape).
			WithContext("requested", want)
	}

	if err := c.dec.Unmarshal(env.Payload, v); err != nil {
		return errors.SerializationError("failed to decode payload", err)
	}
	return nil
}

func shapeOf(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.String()
}
