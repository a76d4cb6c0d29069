package message

import (
	"encoding/json"
	"testing"

	"mini-jsonrpc/codes"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestWireShape(t *testing.T) {
	req := NewRequest("1", "sendPayment", []any{"addr1", 100})

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Equal(t, `{"jsonrpc":"2.0","id":"1","method":"sendPayment","params":["addr1",100]}`, string(data))
}

func TestRequestNilParams(t *testing.T) {
	data, err := json.Marshal(NewRequest("7", "getBalance", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"7","method":"getBalance","params":[]}`, string(data))
}

func TestResponseOutcome(t *testing.T) {
	cases := []struct {
		name string
		body string
		kind OutcomeKind
	}{
		{"value", `{"result":42,"id":"X"}`, OutcomeValue},
		{"value with null error", `{"jsonrpc":"2.0","id":"1","result":42,"error":null}`, OutcomeValue},
		{"empty", `{"id":"X"}`, OutcomeEmpty},
		{"null result", `{"result":null,"id":"X"}`, OutcomeEmpty},
		{"error", `{"error":{"code":-32601,"message":"method not found"},"id":"X"}`, OutcomeFailure},
		{"error wins", `{"result":1,"error":{"code":-1,"message":"boom"},"id":"X"}`, OutcomeFailure},
		{"falsy result", `{"result":false,"id":"X"}`, OutcomeValue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var resp Response
			require.NoError(t, json.Unmarshal([]byte(tc.body), &resp))
			require.NoError(t, resp.Validate())
			assert.Equal(t, tc.kind, resp.Outcome().Kind)
		})
	}
}

func TestResponseFailureCarriesPeerError(t *testing.T) {
	var resp Response
	body := `{"jsonrpc":"2.0","id":"1","result":null,"error":{"code":-32602,"message":"invalid params","data":{"arg":1}}}`
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	out := resp.Outcome()
	require.Equal(t, OutcomeFailure, out.Kind)
	assert.True(t, codes.InvalidParams.Is(out.Err.Code))
	assert.Equal(t, "invalid params", out.Err.Message)
	assert.JSONEq(t, `{"arg":1}`, string(out.Err.Data))
	assert.Equal(t, "code: -32602, message: invalid params", out.Err.Error())
}

func TestResponseShapeErrors(t *testing.T) {
	var missingID Response
	require.NoError(t, json.Unmarshal([]byte(`{"result":1}`), &missingID))
	assert.Error(t, missingID.Validate())

	var numericID Response
	assert.Error(t, json.Unmarshal([]byte(`{"result":1,"id":5}`), &numericID))

	var partialError Response
	assert.Error(t, json.Unmarshal([]byte(`{"error":{"message":"no code"},"id":"1"}`), &partialError))

	var notObject Response
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &notObject))
}

func TestResponseMemberNamesAreExact(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		decodes bool
		valid   bool
		kind    OutcomeKind
	}{
		{"upper case error is ignored", `{"id":"1","Error":{"code":1,"message":"x"}}`, true, true, OutcomeEmpty},
		{"upper case result is ignored", `{"id":"1","Result":5}`, true, true, OutcomeEmpty},
		{"upper case id is missing", `{"ID":"1","RESULT":5}`, true, false, OutcomeEmpty},
		{"null id is missing", `{"id":null,"result":5}`, true, false, OutcomeValue},
		{"upper case error members", `{"id":"1","error":{"CODE":1,"MESSAGE":"x"}}`, false, false, OutcomeEmpty},
		{"null error code", `{"id":"1","error":{"code":null,"message":"x"}}`, false, false, OutcomeEmpty},
		{"exact names", `{"id":"1","result":5,"error":null}`, true, true, OutcomeValue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var resp Response
			err := json.Unmarshal([]byte(tc.body), &resp)
			if !tc.decodes {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if !tc.valid {
				assert.Error(t, resp.Validate())
				return
			}
			require.NoError(t, resp.Validate())
			assert.Equal(t, tc.kind, resp.Outcome().Kind)
		})
	}
}

func TestCallErrorClassification(t *testing.T) {
	cause := errors.New("connection refused")

	err := TransportError(cause)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.False(t, errors.Is(err, ErrResponseFormat))
	assert.Equal(t, cause, errors.Cause(err))
	assert.Equal(t, "transport error: connection refused", err.Error())

	// classifying twice keeps a single layer
	assert.Same(t, err, TransportError(err))

	ferr := FormatError(cause)
	assert.True(t, errors.Is(ferr, ErrResponseFormat))
	assert.False(t, errors.Is(ferr, ErrTransport))

	assert.NoError(t, TransportError(nil))
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "value", OutcomeValue.String())
	assert.Equal(t, "empty", OutcomeEmpty.String())
	assert.Equal(t, "failure", OutcomeFailure.String())
}
