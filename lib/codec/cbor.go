// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map
// keys, smallest integer widths, no indefinite-length items. The same
// logical value always encodes to the same bytes, which is what makes
// snapshot digests meaningful (see queueview.Digest).
var encMode cbor.EncMode

// decMode accepts standard CBOR. Unknown fields are ignored so old
// clients keep working against newer servers.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Map values decoded into an any-typed target become
		// map[string]any rather than CBOR's default
		// map[interface{}]interface{}, which nothing else in Go
		// wants to consume. Struct decoding is unaffected.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v with deterministic CBOR encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// NewEncoder returns a streaming encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a streaming decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return decMode.NewDecoder(r)
}

// Encoder is a CBOR stream encoder. Alias so the rest of the module
// imports only lib/codec, never fxamacker/cbor directly.
type Encoder = cbor.Encoder

// Decoder is a CBOR stream decoder.
type Decoder = cbor.Decoder

// RawMessage is a raw encoded CBOR value, used to defer decoding of
// action-specific request fields until the handler is known.
type RawMessage = cbor.RawMessage
