// Package message defines the JSON-RPC 2.0 envelopes exchanged between the client and a peer.
//
// Request is the envelope for every call. It gets serialized by the codec layer and
// posted as the HTTP body. Response is what the peer sends back; Outcome folds its
// optional result and optional error into one of three cases.
package message

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Version is the only protocol version the client speaks.
const Version = "2.0"

// Request carries a single positional-parameter call.
//
// Field order matches the wire form: {"jsonrpc","id","method","params"}.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// NewRequest builds a fresh envelope. A nil params slice is sent as an empty array.
func NewRequest(id, method string, params []any) *Request {
	if params == nil {
		params = []any{}
	}
	return &Request{
		JSONRPC: Version,
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

// Response is the envelope returned by the peer.
//
//   - Result is kept raw until the caller asks for a concrete type.
//   - Error is nil unless the peer reported a failure.
//   - ID must be present and be a JSON string.
type Response struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
	ID     *string         `json:"id"`
}

// UnmarshalJSON decodes the envelope matching member names exactly.
// Members other than result, error and id are ignored.
func (r *Response) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	*r = Response{}
	if raw, ok := members["result"]; ok {
		r.Result = raw
	}
	if raw, ok := members["error"]; ok && present(raw) {
		r.Error = &RPCError{}
		if err := json.Unmarshal(raw, r.Error); err != nil {
			return errors.Wrap(err, "invalid error member")
		}
	}
	if raw, ok := members["id"]; ok && present(raw) {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return errors.Wrap(err, "invalid id member")
		}
		r.ID = &id
	}
	return nil
}

// Validate checks the parts of the shape that decoding alone does not enforce.
func (r *Response) Validate() error {
	if r.ID == nil {
		return errors.New("response has no string id")
	}
	return nil
}

// HasResult reports whether the peer sent a non-null result.
func (r *Response) HasResult() bool {
	return present(r.Result)
}

// Outcome interprets the response. An error always wins over a result.
func (r *Response) Outcome() Outcome {
	switch {
	case r.Error != nil:
		return Outcome{Kind: OutcomeFailure, Err: r.Error}
	case r.HasResult():
		return Outcome{Kind: OutcomeValue, Value: r.Result}
	default:
		return Outcome{Kind: OutcomeEmpty}
	}
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
