// Package apiconnect binds the billcal.v1 services to Connect handlers and
// clients. Every handler and client speaks JSON through api.Codec.
package apiconnect

import (
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/pkg/api"
)

// The JSON codec goes first so callers can still override it.

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func trimSlash(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
