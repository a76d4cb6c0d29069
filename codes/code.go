// Package codes lists the error codes reserved by JSON-RPC 2.0.
package codes

type Code int

const (
	ParseError     Code = -32700
	InvalidRequest Code = -32600
	MethodNotFound Code = -32601
	InvalidParams  Code = -32602
	InternalError  Code = -32603
)

// Reserved reports whether c lies in the range -32768..-32000 set aside for
// protocol and implementation defined errors.
func (c Code) Reserved() bool {
	return c >= -32768 && c <= -32000
}

// Is reports whether an error code reported by a peer equals c.
func (c Code) Is(code int) bool {
	return int(c) == code
}
