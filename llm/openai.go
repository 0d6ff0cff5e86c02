package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prohubhq/prohub/types"
)

const openAIChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider implements the Provider interface against the OpenAI
// chat completions API with a strict JSON-schema response format.
type OpenAIProvider struct {
	apiKey  string
	timeout time.Duration
	debug   bool
	baseURL string
}

// NewOpenAIProvider creates a new OpenAIProvider with options.
func NewOpenAIProvider(apiKey string, timeout time.Duration, debug bool) *OpenAIProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIProvider{apiKey: apiKey, timeout: timeout, debug: debug, baseURL: openAIChatCompletionsURL}
}

// openAIRequestPayload defines the structure for the OpenAI API request.
type openAIRequestPayload struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    float64               `json:"temperature,omitempty"`
	MaxTokens      int                   `json:"max_tokens,omitempty"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

// openAIMessage defines a message in the conversation for OpenAI.
type openAIMessage struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// openAIResponseFormat constrains the model output to a JSON schema.
type openAIResponseFormat struct {
	Type       string            `json:"type"` // "json_schema"
	JSONSchema *openAIJSONSchema `json:"json_schema,omitempty"`
}

type openAIJSONSchema struct {
	Name   string                 `json:"name"`
	Schema map[string]interface{} `json:"schema"`
	Strict bool                   `json:"strict"`
}

// openAIResponsePayload defines the structure for the OpenAI API response.
type openAIResponsePayload struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []openAIChoice `json:"choices"`
	Usage   openAIUsage    `json:"usage"`
}

type openAIChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// prioritizedTasksWrapper unmarshals the JSON object the schema forces
// the model to return.
type prioritizedTasksWrapper struct {
	Tasks []types.PrioritizedTask `json:"tasks"`
}

// buildPrioritizeSchema returns a JSON Schema for an object with a
// required 'tasks' array of ranked entries.
func buildPrioritizeSchema() map[string]interface{} {
	entry := map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"title":       map[string]interface{}{"type": "string"},
			"description": map[string]interface{}{"type": "string"},
			"deadline":    map[string]interface{}{"type": "string"},
			"importance":  map[string]interface{}{"type": "string", "enum": []string{"low", "medium", "high"}},
			"reason":      map[string]interface{}{"type": "string"},
			"priority":    map[string]interface{}{"type": "integer", "minimum": 1},
		},
		"required": []string{"title", "description", "deadline", "importance", "reason", "priority"},
	}
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"tasks": map[string]interface{}{
				"type":  "array",
				"items": entry,
			},
		},
		"required": []string{"tasks"},
	}
}

// PrioritizeTasks sends the pending tasks to OpenAI and returns the
// ranked list. Every failure path wraps into *types.OracleError so the
// caller can leave its task collection untouched.
func (p *OpenAIProvider) PrioritizeTasks(ctx context.Context, systemPrompt string, items []types.PrioritizeItem, modelName string, apiKey string, maxTokens int, temperature float64) ([]types.PrioritizedTask, error) {
	if apiKey == "" {
		apiKey = p.apiKey
	}
	if apiKey == "" {
		return nil, types.NewOracleError("openai", "API key is not set", nil)
	}
	if len(items) == 0 {
		return nil, types.NewOracleError("openai", "nothing to prioritize: no pending tasks in request", nil)
	}

	itemsJSON, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, types.NewOracleError("openai", "failed to encode request items", err)
	}
	userMessage := fmt.Sprintf("Prioritize the following tasks:\n\n%s", string(itemsJSON))

	payload := openAIRequestPayload{
		Model: modelName,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		ResponseFormat: &openAIResponseFormat{
			Type: "json_schema",
			JSONSchema: &openAIJSONSchema{
				Name:   "task_prioritization",
				Schema: buildPrioritizeSchema(),
				Strict: true,
			},
		},
	}
	if maxTokens > 0 {
		payload.MaxTokens = maxTokens
	}
	if temperature > 0 {
		payload.Temperature = temperature
	}

	content, err := p.callChatCompletions(ctx, apiKey, payload)
	if err != nil {
		return nil, err
	}

	var wrapper prioritizedTasksWrapper
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		return nil, types.NewOracleError("openai", fmt.Sprintf("malformed response content: %s", truncate(content, 200)), err)
	}
	ranked := sanitizePrioritizedTasks(wrapper.Tasks)
	if len(ranked) == 0 {
		// An empty ranking is a failure: the caller keeps its prior
		// annotations rather than clearing them against nothing.
		return nil, types.NewOracleError("openai", "response contained no ranked tasks", nil)
	}
	return ranked, nil
}

func (p *OpenAIProvider) callChatCompletions(ctx context.Context, apiKey string, payload openAIRequestPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", types.NewOracleError("openai", "failed to marshal request payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return "", types.NewOracleError("openai", "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: p.timeout}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), "context deadline exceeded") || strings.Contains(err.Error(), "Client.Timeout exceeded") {
			return "", types.NewOracleError("openai", fmt.Sprintf("request timed out after %v", p.timeout), err)
		}
		return "", types.NewOracleError("openai", "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.NewOracleError("openai", "failed to read response body", err)
	}
	if p.debug {
		slog.Debug("openai chat completion",
			"model", payload.Model,
			"status", resp.Status,
			"bytes", len(raw),
			"duration", time.Since(start))
	}

	if resp.StatusCode != http.StatusOK {
		return "", types.NewOracleError("openai", fmt.Sprintf("API error (%s): %s", resp.Status, truncate(strings.TrimSpace(string(raw)), 300)), nil)
	}

	var parsed openAIResponsePayload
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", types.NewOracleError("openai", "malformed response envelope", err)
	}
	if len(parsed.Choices) == 0 {
		return "", types.NewOracleError("openai", "response contained no choices", nil)
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", types.NewOracleError("openai", "response contained empty content", nil)
	}
	return content, nil
}

// sanitizePrioritizedTasks drops entries without a title and repairs
// out-of-range priorities so downstream merging always sees ranks >= 1.
func sanitizePrioritizedTasks(in []types.PrioritizedTask) []types.PrioritizedTask {
	out := make([]types.PrioritizedTask, 0, len(in))
	for _, t := range in {
		if strings.TrimSpace(t.Title) == "" {
			continue
		}
		if t.Priority < 1 {
			t.Priority = len(out) + 1
		}
		out = append(out, t)
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
