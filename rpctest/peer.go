// Package rpctest provides a scripted JSON-RPC peer for tests.
//
// Peer is an httptest server that records every request it receives and
// answers each method with a canned body:
//
//	POST / → record request → look up method → write scripted reply
//
// It decodes just enough of the envelope to route by method; it is not a
// JSON-RPC server.
package rpctest

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"mini-jsonrpc/codes"
)

// Envelope is the request as the peer saw it. Params stay raw so tests can
// check order and exact encoding.
type Envelope struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// Recorded is one HTTP request received by the peer.
type Recorded struct {
	Method   string // HTTP method
	Path     string
	Host     string
	Close    bool
	Header   http.Header
	Body     []byte
	Envelope Envelope
}

// Reply is a scripted answer.
type Reply struct {
	Status int // defaults to 200
	Body   string
}

// HandlerFunc computes the reply for a request.
type HandlerFunc func(env Envelope) Reply

// Peer is a scripted JSON-RPC endpoint.
type Peer struct {
	server *httptest.Server

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	fallback HandlerFunc
	requests []Recorded
}

// NewPeer starts a peer and stops it when the test ends.
func NewPeer(t testing.TB) *Peer {
	p := &Peer{
		handlers: make(map[string]HandlerFunc),
		fallback: func(env Envelope) Reply {
			return Reply{Body: fmt.Sprintf(`{"jsonrpc":"2.0","id":%s,"error":{"code":%d,"message":"Method not found"}}`, idOrNull(env.ID), codes.MethodNotFound)}
		},
	}
	p.server = httptest.NewServer(http.HandlerFunc(p.serveHTTP))
	t.Cleanup(p.server.Close)
	return p
}

// Reply answers method with a fixed body and status 200.
func (p *Peer) Reply(method, body string) {
	p.Handle(method, func(Envelope) Reply {
		return Reply{Body: body}
	})
}

// Handle registers fn for method, replacing any earlier script.
func (p *Peer) Handle(method string, fn HandlerFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[method] = fn
}

// Fallback sets the reply for methods without a script.
func (p *Peer) Fallback(fn HandlerFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fallback = fn
}

// Host returns the host part of the listening address.
func (p *Peer) Host() string {
	host, _, _ := net.SplitHostPort(p.server.Listener.Addr().String())
	return host
}

// Port returns the listening port.
func (p *Peer) Port() uint16 {
	_, port, _ := net.SplitHostPort(p.server.Listener.Addr().String())
	n, _ := strconv.ParseUint(port, 10, 16)
	return uint16(n)
}

// Requests returns a copy of everything received so far.
func (p *Peer) Requests() []Recorded {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Recorded, len(p.requests))
	copy(out, p.requests)
	return out
}

// Close stops the peer early, e.g. to test an unreachable endpoint.
func (p *Peer) Close() {
	p.server.Close()
}

func (p *Peer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec := Recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Host:   r.Host,
		Close:  r.Close,
		Header: r.Header.Clone(),
		Body:   body,
	}
	// unparseable bodies are still recorded and routed to the fallback
	_ = json.Unmarshal(body, &rec.Envelope)

	p.mu.Lock()
	p.requests = append(p.requests, rec)
	fn, ok := p.handlers[rec.Envelope.Method]
	if !ok {
		fn = p.fallback
	}
	p.mu.Unlock()

	reply := fn(rec.Envelope)
	if reply.Status == 0 {
		reply.Status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = io.WriteString(w, reply.Body)
}

func idOrNull(id json.RawMessage) string {
	if len(id) == 0 {
		return "null"
	}
	return string(id)
}
