// Package api defines the request and response messages of the billcal.v1
// Connect services. Messages are plain structs encoded as JSON.
package api

import (
	"github.com/goccy/go-json"
)

// Codec encodes messages as JSON. Register it on both handlers and clients
// with connect.WithCodec; it replaces Connect's protobuf JSON codec.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
