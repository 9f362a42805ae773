// Package llm вызывает OpenAI-совместимый chat completions endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// ErrEmptyReply - модель вернула пустой ответ
var ErrEmptyReply = errors.New("empty response from LLM")

// Options - всё, что нужно клиенту; передаётся явно, без глобального состояния
type Options struct {
	URL         string // полный адрес .../chat/completions
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Headers     map[string]string // дополнительные заголовки
}

// Client - клиент chat completions
type Client struct {
	http *resty.Client
	opts Options
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// New создаёт клиента; ретраев нет, таймаут из Options
func New(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, errors.New("llm: URL is required")
	}
	if opts.Model == "" {
		return nil, errors.New("llm: model is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 90 * time.Second
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		client.SetAuthToken(opts.APIKey)
	}
	for k, v := range opts.Headers {
		client.SetHeader(k, v)
	}

	return &Client{http: client, opts: opts}, nil
}

// Model возвращает имя модели
func (c *Client) Model() string {
	return c.opts.Model
}

// Complete отправляет один пользовательский промпт и возвращает текст ответа
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, "", prompt)
}

// Chat отправляет промпт с необязательным system-сообщением
func (c *Client) Chat(ctx context.Context, system, prompt string) (string, error) {
	req := chatRequest{
		Model:       c.opts.Model,
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	}
	if system != "" {
		req.Messages = append(req.Messages, message{Role: "system", Content: system})
	}
	req.Messages = append(req.Messages, message{Role: "user", Content: prompt})

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.opts.URL)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}

	if !resp.IsSuccess() {
		return "", fmt.Errorf("LLM returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 512))
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("failed to decode response: %s", truncate(string(body), 512))
	}
	if apiErr := gjson.GetBytes(body, "error.message"); apiErr.Exists() {
		return "", fmt.Errorf("LLM error: %s", apiErr.String())
	}

	content := strings.TrimSpace(gjson.GetBytes(body, "choices.0.message.content").String())
	if content == "" {
		return "", ErrEmptyReply
	}
	return content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
