// Package ai fronts the external model service used for contextual Q&A
// and quiz drafting. The wire protocol is a single JSON chat endpoint.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Answerer produces a model response for a prompt grounded in context.
type Answerer interface {
	Answer(ctx context.Context, contextText, question string) (string, error)
}

// HTTPClient talks to the model service's /api/chat endpoint.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 60 * time.Second},
	}
}

type chatRequest struct {
	Context  string `json:"context"`
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func (c *HTTPClient) Answer(ctx context.Context, contextText, question string) (string, error) {
	body, err := json.Marshal(chatRequest{Context: contextText, Question: question})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai chat: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}
