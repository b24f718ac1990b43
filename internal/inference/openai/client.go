package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/abbrev/internal/inference"
	"github.com/avast/retry-go"
	"resty.dev/v3"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// Client talks to any OpenAI-compatible API, including Ollama's /v1 endpoint.
type Client struct {
	httpClient       *resty.Client
	model            string
	embeddingModel   string
	maxRetryAttempts uint
}

var (
	_ inference.Client   = (*Client)(nil)
	_ inference.Embedder = (*Client)(nil)
)

func NewClient(baseURL, apiKey, model, embeddingModel string, retryAttempts uint) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		embeddingModel:   embeddingModel,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

// EmbeddingModel returns the embedding model name configured for this client
func (client *Client) EmbeddingModel() string {
	return client.embeddingModel
}

type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float32         `json:"temperature,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type EmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type EmbeddingResponse struct {
	Object string          `json:"object"`
	Data   []EmbeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  Usage           `json:"usage"`
}

type EmbeddingData struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

// isRetryableError determines if an error should trigger a retry.
// A malformed answer is not retried here; callers decide whether to ask again.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, inference.ErrMalformedResponse) {
		return false
	}

	errStr := err.Error()

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "connection reset") || strings.Contains(errStr, "EOF") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

func (client *Client) withRetry(ctx context.Context, f func() error) error {
	return retry.Do(
		func() error {
			err := f()
			if err != nil && !isRetryableError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying OpenAI API call",
				"attempt", n+1,
				"error", err)
		}),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// SuggestAbbreviation implements the inference.Client interface
func (client *Client) SuggestAbbreviation(
	ctx context.Context,
	params inference.SuggestAbbreviationRequest,
) (inference.SuggestAbbreviationResponse, error) {
	var result inference.SuggestAbbreviationResponse
	if err := client.withRetry(ctx, func() error {
		response, err := client.suggestAbbreviation(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return inference.SuggestAbbreviationResponse{}, err
	}
	return result, nil
}

func (client *Client) suggestAbbreviation(
	ctx context.Context,
	params inference.SuggestAbbreviationRequest,
) (inference.SuggestAbbreviationResponse, error) {
	requestBody := ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.7,
		Messages: []Message{
			{Role: RoleSystem, Content: abbreviationSystemPrompt},
			{Role: RoleUser, Content: buildAbbreviationUserPrompt(params)},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	content, err := client.chatCompletion(ctx, requestBody)
	if err != nil {
		return inference.SuggestAbbreviationResponse{}, err
	}

	slog.Default().Debug("suggestAbbreviation response",
		"keyword", params.Keyword,
		"avoid", params.Avoid,
		"response", content,
	)

	return parseSuggestion(content)
}

func (client *Client) chatCompletion(ctx context.Context, requestBody ChatCompletionRequest) (string, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response body or choices: %s", inference.ErrMalformedResponse, response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: empty response content: %s", inference.ErrMalformedResponse, response.String())
	}
	return content, nil
}

// Embed implements the inference.Embedder interface
func (client *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var result [][]float32
	if err := client.withRetry(ctx, func() error {
		response, err := client.embed(ctx, texts)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (client *Client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(EmbeddingRequest{
			Model: client.embeddingModel,
			Input: texts,
		}).
		SetResult(&EmbeddingResponse{}).
		Post("/embeddings")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*EmbeddingResponse)
	if responseBody == nil || len(responseBody.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings: %s", inference.ErrMalformedResponse, len(texts), response.String())
	}

	vectors := make([][]float32, len(texts))
	for _, data := range responseBody.Data {
		if data.Index < 0 || data.Index >= len(texts) || len(data.Embedding) == 0 {
			return nil, fmt.Errorf("%w: invalid embedding at index %d", inference.ErrMalformedResponse, data.Index)
		}
		vectors[data.Index] = data.Embedding
	}
	for i, vector := range vectors {
		if vector == nil {
			return nil, fmt.Errorf("%w: missing embedding for input %d", inference.ErrMalformedResponse, i)
		}
	}
	return vectors, nil
}
