package message

import "encoding/json"

// OutcomeKind tags which of the three response shapes a call produced.
type OutcomeKind int

const (
	// OutcomeEmpty means neither result nor error was sent.
	OutcomeEmpty OutcomeKind = iota
	// OutcomeValue means a result was sent and no error.
	OutcomeValue
	// OutcomeFailure means the peer sent an error object.
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeEmpty:
		return "empty"
	case OutcomeValue:
		return "value"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is the interpreted response of one call.
// Value is set only for OutcomeValue, Err only for OutcomeFailure.
type Outcome struct {
	Kind  OutcomeKind
	Value json.RawMessage
	Err   *RPCError
}
