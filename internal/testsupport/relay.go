package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RelayRequest is one publish captured by a Relay.
type RelayRequest struct {
	Method        string
	Authorization string
	UserAgent     string
	Body          map[string]any
}

// Relay is an httptest server that acknowledges publishes the way ntfy does.
type Relay struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RelayRequest
	status   int
	reply    string
}

// NewRelay starts a relay that answers with a fixed acknowledgment.
func NewRelay(t testing.TB) *Relay {
	t.Helper()

	relay := &Relay{
		status: http.StatusOK,
		reply:  `{"id":"relay-1","time":1667069121,"event":"message","topic":"test-topic","message":"Ansible playbook"}`,
	}
	relay.Server = httptest.NewServer(http.HandlerFunc(relay.handle))
	t.Cleanup(relay.Close)
	return relay
}

// Respond changes the status and body returned for subsequent requests.
func (r *Relay) Respond(status int, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.reply = body
}

// Requests returns a copy of the captured requests.
func (r *Relay) Requests() []RelayRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RelayRequest(nil), r.requests...)
}

func (r *Relay) handle(w http.ResponseWriter, req *http.Request) {
	captured := RelayRequest{
		Method:        req.Method,
		Authorization: req.Header.Get("Authorization"),
		UserAgent:     req.Header.Get("User-Agent"),
	}
	if raw, err := io.ReadAll(req.Body); err == nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, &captured.Body)
	}

	r.mu.Lock()
	r.requests = append(r.requests, captured)
	status, reply := r.status, r.reply
	r.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply)
}
