package codec

import (
	"testing"

	"mini-jsonrpc/message"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodecEncodeRequest(t *testing.T) {
	cdc := Default()

	data, err := cdc.Encode(message.NewRequest("1", "getBalance", []any{"<tag>&", 3.5, true, nil}))
	require.NoError(t, err)

	// compact, no trailing newline, html left as is
	assert.Equal(t, `{"jsonrpc":"2.0","id":"1","method":"getBalance","params":["<tag>&",3.5,true,null]}`, string(data))
	assert.Equal(t, "application/json", cdc.ContentType())
}

func TestJSONCodecDecodeResponse(t *testing.T) {
	cdc := &JSONCodec{}

	var resp message.Response
	require.NoError(t, cdc.Decode([]byte(`{"jsonrpc":"2.0","id":"1","result":{"a":[1,2]}}`), &resp))
	require.NotNil(t, resp.ID)
	assert.Equal(t, "1", *resp.ID)
	assert.JSONEq(t, `{"a":[1,2]}`, string(resp.Result))
}

func TestJSONCodecDecodeGarbage(t *testing.T) {
	cdc := &JSONCodec{}

	var resp message.Response
	assert.Error(t, cdc.Decode([]byte("<html>bad gateway</html>"), &resp))
}

func TestJSONCodecEncodeUnsupported(t *testing.T) {
	cdc := &JSONCodec{}

	_, err := cdc.Encode(message.NewRequest("1", "m", []any{make(chan int)}))
	assert.Error(t, err)
}
