package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Request is one request received by ApiMock.
type Request struct {
	Headers map[string]string
	Queries map[string]string
	Body    map[string]any
}

type cannedResponse struct {
	status int
	body   any
}

// ApiMock is a stand-in for the finance API used to drive the client layer.
// Responses are registered per method and path; each request consumes the
// next response for its key, and the last one repeats.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	responses map[string][]cannedResponse
	served    map[string]int
	received  map[string][]Request
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		responses: map[string][]cannedResponse{},
		served:    map[string]int{},
		received:  map[string][]Request{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.serve))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

func (a *ApiMock) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)

	req := Request{Headers: map[string]string{}, Queries: map[string]string{}, Body: body}
	for k, v := range r.Header {
		req.Headers[k] = v[0]
	}
	for k, v := range r.URL.Query() {
		req.Queries[k] = v[0]
	}

	a.mu.Lock()
	a.received[key] = append(a.received[key], req)
	resp := cannedResponse{status: http.StatusNotFound, body: map[string]any{"error": "Route not found"}}
	if queue := a.responses[key]; len(queue) > 0 {
		i := a.served[key]
		if i >= len(queue) {
			i = len(queue) - 1
		}
		resp = queue[i]
		a.served[key]++
	}
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_ = json.NewEncoder(w).Encode(resp.body)
}

// SetResponse queues a response for method and path.
func (a *ApiMock) SetResponse(method, path string, status int, body any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[method+path] = append(a.responses[method+path], cannedResponse{status: status, body: body})
}

// GetRequest returns the index-th request received for method and path.
func (a *ApiMock) GetRequest(method, path string, index int) (Request, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	reqs := a.received[method+path]
	if index < 0 || index >= len(reqs) {
		return Request{}, false
	}
	return reqs[index], true
}

// Reset forgets all responses and received requests.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses = map[string][]cannedResponse{}
	a.served = map[string]int{}
	a.received = map[string][]Request{}
}
