// Package ai — клиент чат-агента Timeweb Cloud (OpenAI-совместимый endpoint).
package ai

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

	"github.com/eywa-space/crm/internal/assistant"
)

const defaultBaseURL = "https://agent.timeweb.cloud"

var ErrNotConfigured = errors.New("ai: агент не настроен")

type Client struct {
	baseURL       string
	token         string
	agentAccessID string
	systemPrompt  string
	httpClient    *http.Client
}

func NewClient(baseURL, token, agentAccessID, systemPrompt string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         token,
		agentAccessID: agentAccessID,
		systemPrompt:  systemPrompt,
		httpClient:    &http.Client{Timeout: 40 * time.Second},
	}
}

type chatRequest struct {
	// Модель агентом игнорируется, но поле обязательно для совместимости.
	Model    string               `json:"model"`
	Messages []assistant.ChatTurn `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Complete(ctx context.Context, message string, history []assistant.ChatTurn) (string, error) {
	if c.token == "" || c.agentAccessID == "" {
		return "", ErrNotConfigured
	}

	msgs := make([]assistant.ChatTurn, 0, len(history)+2)
	if c.systemPrompt != "" {
		msgs = append(msgs, assistant.ChatTurn{Role: "system", Content: c.systemPrompt})
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, assistant.ChatTurn{Role: assistant.RoleUser, Content: message})

	body, err := json.Marshal(chatRequest{Model: "gpt-4", Messages: msgs})
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/cloud-ai/agents/%s/v1/chat/completions", c.baseURL, c.agentAccessID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: chat completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: api error %d: %s", resp.StatusCode, string(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if parsed.Error.Message != "" {
		return "", fmt.Errorf("ai: агент вернул ошибку: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("ai: пустой ответ агента")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("ai: пустой content в ответе")
	}
	return content, nil
}
