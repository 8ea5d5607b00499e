package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fwojciec/brochure"
	"github.com/fwojciec/brochure/ollama"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_SelectLinks(t *testing.T) {
	t.Parallel()

	page := &brochure.Page{
		URL:   "https://example.com",
		Title: "Example Inc",
		Text:  "We make examples.",
		Links: []string{"/about", "/careers", "/privacy"},
	}

	t.Run("selects links from a single model call", func(t *testing.T) {
		t.Parallel()

		var requests []api.ChatRequest
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, decodeChatRequest(t, r))
			writeChatResponse(t, w, `{"links": [
				{"category": "about page", "url": "https://example.com/about"},
				{"category": "careers page", "url": "https://example.com/careers"}
			]}`)
		}))

		filter := ollama.NewFilter(client)
		selection, err := filter.SelectLinks(context.Background(), page)

		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, &brochure.LinkSelection{
			Links: []brochure.SelectedLink{
				{Category: "about page", URL: "https://example.com/about"},
				{Category: "careers page", URL: "https://example.com/careers"},
			},
		}, selection)
	})

	t.Run("constrains the request to the selection schema", func(t *testing.T) {
		t.Parallel()

		var requests []api.ChatRequest
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, decodeChatRequest(t, r))
			writeChatResponse(t, w, `{"links": []}`)
		}))

		filter := ollama.NewFilter(client)
		_, err := filter.SelectLinks(context.Background(), page)

		require.NoError(t, err)
		require.Len(t, requests, 1)

		req := requests[0]
		assert.Equal(t, "llama3.2", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Contains(t, req.Messages[1].Content, "https://example.com")
		assert.Contains(t, req.Messages[1].Content, "/about")
		assert.Contains(t, req.Messages[1].Content, "/privacy")

		var schema map[string]any
		require.NoError(t, json.Unmarshal(req.Format, &schema))
		assert.Contains(t, schema["required"], "links")
	})

	t.Run("sends one request for a page without links", func(t *testing.T) {
		t.Parallel()

		var requests []api.ChatRequest
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, decodeChatRequest(t, r))
			writeChatResponse(t, w, `{"links": []}`)
		}))

		filter := ollama.NewFilter(client)
		selection, err := filter.SelectLinks(context.Background(), &brochure.Page{URL: "https://example.com"})

		require.NoError(t, err)
		assert.Len(t, requests, 1)
		assert.Empty(t, selection.Links)
	})

	t.Run("strips code fences from the reply", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeChatResponse(t, w, "```json\n{\"links\": [{\"category\": \"about page\", \"url\": \"https://example.com/about\"}]}\n```")
		}))

		filter := ollama.NewFilter(client)
		selection, err := filter.SelectLinks(context.Background(), page)

		require.NoError(t, err)
		require.Len(t, selection.Links, 1)
		assert.Equal(t, "https://example.com/about", selection.Links[0].URL)
	})

	t.Run("retries once with a corrective prompt after a malformed reply", func(t *testing.T) {
		t.Parallel()

		var requests []api.ChatRequest
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, decodeChatRequest(t, r))
			if len(requests) == 1 {
				writeChatResponse(t, w, "The most relevant links are probably the about page.")
				return
			}
			writeChatResponse(t, w, `{"links": [{"category": "about page", "url": "https://example.com/about"}]}`)
		}))

		filter := ollama.NewFilter(client)
		selection, err := filter.SelectLinks(context.Background(), page)

		require.NoError(t, err)
		require.Len(t, requests, 2)
		require.Len(t, selection.Links, 1)

		// The retry carries the conversation plus a corrective turn.
		retry := requests[1]
		require.Len(t, retry.Messages, 4)
		assert.Equal(t, "assistant", retry.Messages[2].Role)
		assert.Equal(t, "user", retry.Messages[3].Role)
		assert.Contains(t, retry.Messages[3].Content, "not valid")
	})

	t.Run("fails with EUNPROCESSABLE after two malformed replies", func(t *testing.T) {
		t.Parallel()

		var requests []api.ChatRequest
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, decodeChatRequest(t, r))
			writeChatResponse(t, w, "no JSON here")
		}))

		filter := ollama.NewFilter(client)
		_, err := filter.SelectLinks(context.Background(), page)

		require.Error(t, err)
		assert.Equal(t, brochure.EUNPROCESSABLE, brochure.ErrorCode(err))
		assert.Len(t, requests, 2)
	})

	t.Run("returns ENOTFOUND when the model is missing", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": "model 'llama3.2' not found"}`))
		}))

		filter := ollama.NewFilter(client)
		_, err := filter.SelectLinks(context.Background(), page)

		require.Error(t, err)
		assert.Equal(t, brochure.ENOTFOUND, brochure.ErrorCode(err))
	})

	t.Run("rejects a page without URL", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))

		filter := ollama.NewFilter(client)
		_, err := filter.SelectLinks(context.Background(), &brochure.Page{})

		require.Error(t, err)
		assert.Equal(t, brochure.EINVALID, brochure.ErrorCode(err))
	})
}

func TestBuildLinksPrompt(t *testing.T) {
	t.Parallel()

	page := &brochure.Page{
		URL:   "https://example.com",
		Links: []string{"/about", "/about", ""},
	}

	prompt := ollama.BuildLinksPrompt(page)

	assert.Contains(t, prompt, "the website of https://example.com")
	assert.Contains(t, prompt, "Ignore email/terms/privacy links.")
	assert.Contains(t, prompt, "/about\n/about\n")
}

// Compile-time verification that Filter implements brochure.RelevanceFilter
var _ brochure.RelevanceFilter = (*ollama.Filter)(nil)
