package httpd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/config"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/pipeline"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type runner struct {
	sync.Mutex
	requests []pipeline.Request
	artifact *types.Artifact
	err      error
	delay    time.Duration
	panic    bool
}

func (r *runner) Run(ctx context.Context, rq pipeline.Request) (*types.Artifact, error) {
	r.Lock()
	r.requests = append(r.requests, rq)
	r.Unlock()

	if r.panic {
		panic("injected")
	}

	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("fetch (%w)", ctx.Err())
		}
	}

	return r.artifact, r.err
}

func newRunner() *runner {
	return &runner{
		artifact: &types.Artifact{
			ID:  "pdf-1",
			URL: "https://drive.google.com/file/d/pdf-1/view",
		},
	}
}

func post(t *testing.T, handler http.Handler, authorization string, body string) (*httptest.ResponseRecorder, response) {
	rq := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rq.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		rq.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, rq)

	var reply response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply), "invalid response %q", w.Body.String())

	return w, reply
}

func TestExport(t *testing.T) {
	r := newRunner()
	router := NewRouter(r, config.DefaultConfig())

	w, reply := post(t, router, "Bearer ya29.example", `{"sourceId":"1BxiMVs","sourceName":"Budget"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, response{Status: "success", URL: "https://drive.google.com/file/d/pdf-1/view", FileID: "pdf-1"}, reply)

	require.Len(t, r.requests, 1)
	assert.Equal(t, pipeline.Request{SourceID: "1BxiMVs", SourceName: "Budget", Credential: "ya29.example"}, r.requests[0])
}

func TestExportWithSpreadsheetAliases(t *testing.T) {
	r := newRunner()
	router := NewRouter(r, config.DefaultConfig())

	w, _ := post(t, router, "Bearer ya29.example", `{"spreadsheetId":"1BxiMVs","spreadsheetName":"Budget"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, r.requests, 1)
	assert.Equal(t, "1BxiMVs", r.requests[0].SourceID)
	assert.Equal(t, "Budget", r.requests[0].SourceName)
}

func TestExportWithInvalidRequest(t *testing.T) {
	tests := []struct {
		authorization string
		body          string
		expected      int
	}{
		{"", `{"sourceId":"1BxiMVs"}`, http.StatusUnauthorized},
		{"Basic dXNlcjpwYXNz", `{"sourceId":"1BxiMVs"}`, http.StatusUnauthorized},
		{"Bearer ya29.example", ``, http.StatusBadRequest},
		{"Bearer ya29.example", `{"sourceId":`, http.StatusBadRequest},
		{"Bearer ya29.example", `{"sourceName":"Budget"}`, http.StatusBadRequest},
		{"Bearer ya29.example", `{"sourceId":"   "}`, http.StatusBadRequest},
	}

	for _, test := range tests {
		r := newRunner()
		router := NewRouter(r, config.DefaultConfig())

		w, reply := post(t, router, test.authorization, test.body)

		assert.Equal(t, test.expected, w.Code, "%q %q", test.authorization, test.body)
		assert.Equal(t, "error", reply.Status)
		assert.NotEmpty(t, reply.Details)
		assert.Empty(t, r.requests, "pipeline invoked for invalid request")
	}
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{fmt.Errorf("%w: invalid token", types.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("%w: intruder@example.org", types.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: no read access", types.ErrAccessDenied), http.StatusForbidden},
		{fmt.Errorf("%w: spreadsheet", types.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: no tabs", types.ErrBadRequest), http.StatusBadRequest},
		{fmt.Errorf("%w: 503", types.ErrUpstream), http.StatusBadGateway},
		{fmt.Errorf("%w: quota", types.ErrStorage), http.StatusInternalServerError},
		{fmt.Errorf("%w: slow (%w)", types.ErrUpstream, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("render failed"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		r := newRunner()
		r.err = test.err
		r.artifact = nil

		w, reply := post(t, NewRouter(r, config.DefaultConfig()), "Bearer ya29.example", `{"sourceId":"1BxiMVs"}`)

		assert.Equal(t, test.expected, w.Code, "%v", test.err)
		assert.Equal(t, response{Status: "error", Details: test.err.Error()}, reply)
	}
}

func TestExportTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RequestTimeout = 10 * time.Millisecond

	r := newRunner()
	r.delay = 5 * time.Second

	w, reply := post(t, NewRouter(r, cfg), "Bearer ya29.example", `{"sourceId":"1BxiMVs"}`)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "error", reply.Status)
}

func TestExportWithPanic(t *testing.T) {
	r := newRunner()
	r.panic = true

	w, reply := post(t, NewRouter(r, config.DefaultConfig()), "Bearer ya29.example", `{"sourceId":"1BxiMVs"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", reply.Status)
}

func TestTraceID(t *testing.T) {
	router := NewRouter(newRunner(), config.DefaultConfig())

	rq := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rq.Header.Set(TraceHeader, "trace-12345")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, rq)

	assert.Equal(t, "trace-12345", w.Header().Get(TraceHeader))

	rq = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, rq)

	assert.Len(t, w.Header().Get(TraceHeader), 36)
}

func TestRateLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RateLimit.PerSecond = 0.001
	cfg.RateLimit.Burst = 2

	r := newRunner()
	router := NewRouter(r, cfg)

	codes := []int{}
	for i := 0; i < 4; i++ {
		w, _ := post(t, router, "Bearer ya29.example", `{"sourceId":"1BxiMVs"}`)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{200, 200, 429, 429}, codes)
	assert.Len(t, r.requests, 2)
}

func TestHealthzAndMetrics(t *testing.T) {
	router := NewRouter(newRunner(), config.DefaultConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	post(t, router, "Bearer ya29.example", `{"sourceId":"1BxiMVs"}`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{path="/",status="200"}`)
}

func TestServe(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.HTTP2 = true

	ctx, cancel := context.WithCancel(context.Background())
	server := NewServer(newRunner(), cfg)
	done := make(chan error, 1)

	go func() {
		done <- server.Serve(ctx, listener)
	}()

	transport := &http.Transport{}
	client := http.Client{Transport: transport, Timeout: 5 * time.Second}

	rq, _ := http.NewRequest(http.MethodPost, "http://"+listener.Addr().String()+"/", strings.NewReader(`{"sourceId":"1BxiMVs"}`))
	rq.Header.Set("Authorization", "Bearer ya29.example")

	rsp, err := client.Do(rq)
	require.NoError(t, err)

	body, _ := io.ReadAll(rsp.Body)
	rsp.Body.Close()
	transport.CloseIdleConnections()

	assert.Equal(t, http.StatusOK, rsp.StatusCode)
	assert.Contains(t, string(body), `"file_id":"pdf-1"`)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
