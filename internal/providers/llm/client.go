// Package llm is the narrow completion client used by the insight
// service. Only the Anthropic messages API is implemented.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quidflow/quidflow/internal/config"
	"go.uber.org/zap"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"
	defaultMaxTokens = 1024
)

var (
	ErrNotConfigured = errors.New("llm_not_configured")
	ErrEmptyResponse = errors.New("llm_empty_response")
)

// Client produces a single text completion for a system+user prompt.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type anthropicClient struct {
	log *zap.Logger

	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewAnthropicClient(cfg config.Config, log *zap.Logger) Client {
	return &anthropicClient{
		log: log.Named("llm.anthropic"),

		apiKey:  cfg.AnthropicAPIKey,
		model:   cfg.AnthropicModel,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete implements Client. The first text block of the response is
// the completion; anything else is ignored.
func (c *anthropicClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(messageRequest{
		Model:     c.model,
		MaxTokens: defaultMaxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(c.baseURL, "/") + messagesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("completion request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("model", c.model),
		)
		return "", fmt.Errorf("llm request failed: status %d", resp.StatusCode)
	}

	var parsed messageResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	for _, block := range parsed.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", ErrEmptyResponse
}
