package message

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrTransport classifies failures before any JSON-RPC semantics apply:
	// dial errors, timeouts, cancellation and non-2xx HTTP statuses.
	ErrTransport = errors.New("transport error")

	// ErrResponseFormat classifies bodies that are not a valid response envelope.
	ErrResponseFormat = errors.New("invalid json rpc response")
)

// RPCError is the error object reported by the peer.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
}

// UnmarshalJSON requires both code and message to be present, matching
// member names exactly.
func (e *RPCError) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	rawCode := members["code"]
	rawMessage := members["message"]
	if !present(rawCode) || !present(rawMessage) {
		return errors.New("error object needs both code and message")
	}

	var out RPCError
	if err := json.Unmarshal(rawCode, &out.Code); err != nil {
		return errors.Wrap(err, "invalid error code")
	}
	if err := json.Unmarshal(rawMessage, &out.Message); err != nil {
		return errors.Wrap(err, "invalid error message")
	}
	if raw, ok := members["data"]; ok && present(raw) {
		out.Data = raw
	}
	*e = out
	return nil
}

// CallError attaches a classification to the underlying cause.
// errors.Is matches the classification; errors.Unwrap and errors.Cause return the cause.
type CallError struct {
	Kind error
	Err  error
}

func (e *CallError) Error() string {
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *CallError) Is(target error) bool {
	return target == e.Kind
}

func (e *CallError) Unwrap() error {
	return e.Err
}

func (e *CallError) Cause() error {
	return e.Err
}

// TransportError classifies err as a transport failure.
func TransportError(err error) error {
	if err == nil || errors.Is(err, ErrTransport) {
		return err
	}
	return &CallError{Kind: ErrTransport, Err: err}
}

// FormatError classifies err as a malformed response.
func FormatError(err error) error {
	if err == nil || errors.Is(err, ErrResponseFormat) {
		return err
	}
	return &CallError{Kind: ErrResponseFormat, Err: err}
}
