package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	main "github.com/fwojciec/brochure/cmd/brochure"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: CLI Help and Discovery
//
// Users discover brochure capabilities through help output. The CLI should
// make it easy to understand what arguments are required and what options
// are available.

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "brochure")
	assert.Contains(t, stdout.String(), "url")
	assert.Contains(t, stdout.String(), "--stream")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_UnknownFlag(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--bogus", "https://example.com"}, &stdout, &stderr)

	assert.Error(t, err)
}

// Story: End-to-End Generation
//
// A full run against a fake company site and a fake Ollama server: the home
// page is fetched, its links go to the model in one call, the selected pages
// are fetched, and the composed brochure lands on stdout verbatim.

// fakeModel is an in-process Ollama server that answers /api/chat from a
// queue of canned completions and records every request it sees.
type fakeModel struct {
	mu       sync.Mutex
	requests []api.ChatRequest
	replies  []string
}

func (f *fakeModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/chat" {
		w.WriteHeader(http.StatusOK) // heartbeat
		return
	}

	var req api.ChatRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	var reply string
	if len(f.replies) > 0 {
		reply = f.replies[0]
		f.replies = f.replies[1:]
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/x-ndjson")
	_ = json.NewEncoder(w).Encode(api.ChatResponse{
		Model:   req.Model,
		Message: api.Message{Role: "assistant", Content: reply},
		Done:    true,
	})
}

func (f *fakeModel) request(i int) api.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

func (f *fakeModel) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// companySite is a fake company website that records requested paths.
type companySite struct {
	mu    sync.Mutex
	paths []string
}

const homeHTML = `<html><head><title>Example Inc</title></head><body>
<h1>Example Inc</h1><p>We make examples.</p>
<a href="/about">About</a>
<a href="/careers">Careers</a>
<a href="/privacy">Privacy</a>
<a href="mailto:hello@example.com">Email us</a>
</body></html>`

func (s *companySite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.paths = append(s.paths, r.URL.Path)
	s.mu.Unlock()

	switch r.URL.Path {
	case "/":
		fmt.Fprint(w, homeHTML)
	case "/about":
		fmt.Fprint(w, `<html><head><title>About</title></head><body><p>Founded in 2015.</p></body></html>`)
	case "/careers":
		fmt.Fprint(w, `<html><head><title>Careers</title></head><body><p>We are hiring.</p></body></html>`)
	default:
		http.NotFound(w, r)
	}
}

func (s *companySite) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

func TestMain_Run_GeneratesBrochure(t *testing.T) {
	t.Parallel()

	site := &companySite{}
	siteSrv := httptest.NewServer(site)
	defer siteSrv.Close()

	model := &fakeModel{replies: []string{
		fmt.Sprintf(`{"links": [{"category": "about page", "url": "/about"}, {"category": "careers page", "url": %q}]}`, siteSrv.URL+"/careers"),
		"# Example Inc\n\nWe make examples, and we are hiring.",
	}}
	modelSrv := httptest.NewServer(model)
	defer modelSrv.Close()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{siteSrv.URL, "Example Inc", "--host", modelSrv.URL}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "# Example Inc\n\nWe make examples, and we are hiring.\n", stdout.String())

	requested := site.requested()
	assert.Contains(t, requested, "/")
	assert.Contains(t, requested, "/about", "relative selected links should be resolved against the seed URL")
	assert.Contains(t, requested, "/careers")
	assert.NotContains(t, requested, "/privacy", "links outside the selection should not be fetched")

	require.Equal(t, 2, model.calls())

	filterReq := model.request(0)
	require.Len(t, filterReq.Messages, 2)
	assert.Contains(t, filterReq.Messages[1].Content, "/privacy", "the filter should see every candidate link")
	assert.NotEmpty(t, filterReq.Format, "the filter call should be schema-constrained")

	composeReq := model.request(1)
	require.Len(t, composeReq.Messages, 2)
	assert.Contains(t, composeReq.Messages[1].Content, "Example Inc")
	assert.Contains(t, composeReq.Messages[1].Content, "Founded in 2015.")
	assert.Contains(t, composeReq.Messages[1].Content, "We are hiring.")
	assert.Empty(t, composeReq.Format, "the brochure call should be free-form")

	assert.Contains(t, stderr.String(), "Generated brochure from 3 pages")
}

func TestMain_Run_DefaultsNameToHost(t *testing.T) {
	t.Parallel()

	site := &companySite{}
	siteSrv := httptest.NewServer(site)
	defer siteSrv.Close()

	model := &fakeModel{replies: []string{
		`{"links": []}`,
		"# Brochure",
	}}
	modelSrv := httptest.NewServer(model)
	defer modelSrv.Close()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{siteSrv.URL, "--host", modelSrv.URL}, &stdout, &stderr)

	require.NoError(t, err)
	require.Equal(t, 2, model.calls())
	host := strings.TrimPrefix(siteSrv.URL, "http://")
	composeReq := model.request(1)
	assert.Contains(t, composeReq.Messages[1].Content, "company called: "+host)
}

func TestMain_Run_HomePageFailure(t *testing.T) {
	t.Parallel()

	siteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer siteSrv.Close()

	model := &fakeModel{}
	modelSrv := httptest.NewServer(model)
	defer modelSrv.Close()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{siteSrv.URL, "Example Inc", "--host", modelSrv.URL}, &stdout, &stderr)

	require.Error(t, err)
	assert.Empty(t, stdout.String(), "nothing should reach stdout when the run fails")
	assert.Contains(t, stderr.String(), "error:")
	assert.Zero(t, model.calls(), "no model calls should follow a home page failure")
}

func TestMain_Run_UnreachableModelServer(t *testing.T) {
	t.Parallel()

	modelSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	modelSrv.Close() // immediately unreachable

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"https://example.com", "Example Inc", "--host", modelSrv.URL}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "ollama serve")
}
