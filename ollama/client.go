// Package ollama provides implementations of brochure.RelevanceFilter and
// brochure.Composer backed by a locally hosted language model served by
// Ollama.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/brochure"
	"github.com/ollama/ollama/api"
	"github.com/xeipuuv/gojsonschema"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "llama3.2"

// Client wraps the Ollama API client with the model name and the
// structured-output handling shared by the filter and the composer.
type Client struct {
	api   *api.Client
	model string
}

// NewClient creates a new Client. An empty model selects DefaultModel.
func NewClient(apiClient *api.Client, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: apiClient, model: model}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Heartbeat verifies that the model service is reachable.
// Returns EUNAVAILABLE when it is not.
func (c *Client) Heartbeat(ctx context.Context) error {
	if err := c.api.Heartbeat(ctx); err != nil {
		return brochure.Errorf(brochure.EUNAVAILABLE, "model service unreachable: %v", err)
	}
	return nil
}

// Prompt is a single exchange sent to the model.
type Prompt struct {
	System      string
	User        string
	Temperature float64
}

// generate sends one chat request and returns the accumulated completion.
// The stream callback, if non-nil, receives chunks as the model produces
// them.
func (c *Client) generate(ctx context.Context, prompt Prompt, stream brochure.StreamFunc) (string, error) {
	messages := []api.Message{
		{Role: "system", Content: prompt.System},
		{Role: "user", Content: prompt.User},
	}
	return c.chat(ctx, messages, prompt.Temperature, nil, stream)
}

// generateStructured sends the prompt constrained to the JSON schema and
// decodes the reply into out. A reply that fails validation is retried
// once with a corrective prompt naming the failure; a second bad reply
// fails with EUNPROCESSABLE.
func (c *Client) generateStructured(ctx context.Context, prompt Prompt, schema []byte, out any) error {
	schemaLoader := gojsonschema.NewBytesLoader(schema)

	messages := []api.Message{
		{Role: "system", Content: prompt.System},
		{Role: "user", Content: prompt.User},
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		reply, err := c.chat(ctx, messages, prompt.Temperature, json.RawMessage(schema), nil)
		if err != nil {
			return err
		}

		cleaned := CleanJSONBlock(reply)
		if err := validateAgainst(schemaLoader, cleaned); err != nil {
			lastErr = err
		} else if err := json.Unmarshal([]byte(cleaned), out); err != nil {
			lastErr = err
		} else {
			return nil
		}

		messages = append(messages,
			api.Message{Role: "assistant", Content: reply},
			api.Message{Role: "user", Content: fmt.Sprintf("The previous reply was not valid: %v. Respond again with only JSON matching the requested structure.", lastErr)},
		)
	}

	return brochure.Errorf(brochure.EUNPROCESSABLE, "model reply did not match the expected structure: %v", lastErr)
}

// chat issues one request against /api/chat and accumulates the reply.
func (c *Client) chat(ctx context.Context, messages []api.Message, temperature float64, format json.RawMessage, stream brochure.StreamFunc) (string, error) {
	streaming := stream != nil
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &streaming,
		Format:   format,
		Options:  map[string]any{"temperature": temperature},
	}

	var sb strings.Builder
	err := c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		if stream != nil {
			stream(resp.Message.Content)
		}
		return nil
	})
	if err != nil {
		return "", c.mapError(err)
	}

	return sb.String(), nil
}

// mapError translates Ollama API failures into application errors.
func (c *Client) mapError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return brochure.Errorf(brochure.ENOTFOUND, "model %q not available: run `ollama pull %s` first", c.model, c.model)
	}
	return err
}

// validateAgainst checks the document against the JSON schema.
func validateAgainst(schema gojsonschema.JSONLoader, doc string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	parts := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		parts = append(parts, desc.String())
	}
	return errors.New(strings.Join(parts, "; "))
}
