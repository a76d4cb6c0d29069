package codec

// Codec serializes request envelopes and deserializes response envelopes.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	ContentType() string // value of the Content-Type header
}

// Default returns the codec used when none is configured.
func Default() Codec {
	return &JSONCodec{}
}
