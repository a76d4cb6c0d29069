package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWellKnownCodes(t *testing.T) {
	cases := map[Code]int{
		ParseError:     -32700,
		InvalidRequest: -32600,
		MethodNotFound: -32601,
		InvalidParams:  -32602,
		InternalError:  -32603,
	}
	for code, want := range cases {
		assert.True(t, code.Is(want))
		assert.True(t, code.Reserved())
	}
}

func TestReserved(t *testing.T) {
	assert.True(t, Code(-32768).Reserved())
	assert.True(t, Code(-32000).Reserved())
	assert.False(t, Code(-31999).Reserved())
	assert.False(t, Code(-32769).Reserved())
	assert.False(t, Code(4).Reserved())
}
