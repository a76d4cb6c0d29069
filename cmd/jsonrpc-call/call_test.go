package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mini-jsonrpc/codes"
	"mini-jsonrpc/config"
	"mini-jsonrpc/loadbalance"
	"mini-jsonrpc/message"
	"mini-jsonrpc/registry"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params := parseParams([]string{"addr1", "100", "true", `{"a":1}`, `"100"`, "[1,2]"})

	data, err := json.Marshal(params)
	require.NoError(t, err)
	assert.Equal(t, `["addr1",100,true,{"a":1},"100",[1,2]]`, string(data))
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, false, nil))
	assert.Equal(t, "null\n", buf.String())

	buf.Reset()
	require.NoError(t, printResult(&buf, true, json.RawMessage(`{"a":1}`)))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(message.TransportError(errors.New("refused"))))
	assert.Equal(t, 2, exitCode(message.FormatError(errors.New("garbage"))))
	assert.Equal(t, 3, exitCode(&message.RPCError{Code: int(codes.MethodNotFound), Message: "method not found"}))
	assert.Equal(t, 4, exitCode(errors.New("method is required")))
}

func TestOverridesApply(t *testing.T) {
	f := &config.File{}
	o := overrides{host: "node", port: 8332, portSet: true, user: "alice", password: "secret", timeout: 2 * time.Second, timeSet: true}
	require.NoError(t, o.apply(f))

	assert.Equal(t, "node", f.Endpoint.Host)
	assert.Equal(t, uint16(8332), f.Endpoint.Port)
	assert.Equal(t, "alice", f.Auth.User)
	assert.Equal(t, "1", f.Client.RequestID)
	timeout, err := f.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, timeout)

	f = &config.File{Client: config.Client{RequestID: "7"}}
	require.NoError(t, overrides{host: "node", port: 1, portSet: true}.apply(f))
	assert.Equal(t, "7", f.Client.RequestID)
}

func TestOverridesRejectPortOverflow(t *testing.T) {
	f := &config.File{Endpoint: config.Endpoint{Host: "node", Port: 1}}
	err := overrides{port: 70000, portSet: true}.apply(f)
	assert.Error(t, err)
	assert.Equal(t, uint16(1), f.Endpoint.Port)

	assert.Error(t, overrides{host: "node"}.apply(&config.File{}))
}

func TestUserOverrideSelectsHashKey(t *testing.T) {
	endpoints := make([]registry.Endpoint, 0, 16)
	for i := 0; i < 16; i++ {
		endpoints = append(endpoints, registry.Endpoint{Host: fmt.Sprintf("10.0.0.%d", i), Port: 8332})
	}
	pick := func(key string) string {
		ep, err := loadbalance.NewConsistentHashBalancer(key).Pick(endpoints)
		require.NoError(t, err)
		return ep.Addr()
	}

	// find a user that lands on a different endpoint than the one in the file
	fromFile := pick("bob")
	var user string
	for i := 0; i < 100 && user == ""; i++ {
		if candidate := fmt.Sprintf("user-%d", i); pick(candidate) != fromFile {
			user = candidate
		}
	}
	require.NotEmpty(t, user)

	path := filepath.Join(t.TempDir(), "client.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[auth]
user = "bob"
[registry]
etcd = ["127.0.0.1:2379"]
service = "wallet"
balancer = "consistent-hash"
`), 0o600))

	f, err := config.Read(path)
	require.NoError(t, err)
	require.NoError(t, overrides{user: user}.apply(f))

	bal, err := f.Balancer()
	require.NoError(t, err)
	ep, err := bal.Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, pick(user), ep.Addr())
	assert.NotEqual(t, fromFile, ep.Addr())
}
