package api

import (
	"encoding/json"
	"errors"

	"connectrpc.com/connect"
)

// CodecName is the Connect codec name, served as application/json.
const CodecName = "json"

// FeatureLockedKey is the error metadata key set on mutations refused for
// guest sessions. Its value is FeatureLockedGuest.
const (
	FeatureLockedKey   = "Feature-Locked"
	FeatureLockedGuest = "guest"
)

type jsonCodec struct{}

func (jsonCodec) Name() string { return CodecName }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Codec returns the JSON codec for plain struct messages.
func Codec() connect.Codec {
	return jsonCodec{}
}

// IsFeatureLocked reports whether err is a guest feature-locked refusal.
func IsFeatureLocked(err error) bool {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return false
	}
	return connectErr.Code() == connect.CodePermissionDenied &&
		connectErr.Meta().Get(FeatureLockedKey) == FeatureLockedGuest
}
