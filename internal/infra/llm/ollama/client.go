package ollama

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
)

const defaultBaseURL = "http://localhost:11434"

// GenerateRequest is the payload sent to the Ollama generate endpoint.
type GenerateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options GenerateOptions `json:"options,omitempty"`
}

// GenerateOptions carries sampling parameters.
type GenerateOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

// GenerateResponse captures the response for non streaming calls.
type GenerateResponse struct {
	Response string `json:"response"`
}

// EmbeddingRequest is the payload sent to the Ollama embeddings endpoint.
type EmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// EmbeddingResponse captures a single embedding vector.
type EmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Client performs HTTP requests to a local Ollama server.
type Client struct {
	baseURL        string
	model          string
	embeddingModel string
	httpClient     *http.Client
}

// NewClient constructs an Ollama client.
func NewClient(baseURL, model, embeddingModel string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("ollama model cannot be empty")
	}
	if strings.TrimSpace(embeddingModel) == "" {
		return nil, errors.New("ollama embedding model cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		model:          model,
		embeddingModel: embeddingModel,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Generate triggers a sync completion call.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := c.doRequest(ctx, "/api/generate", GenerateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: GenerateOptions{NumPredict: maxTokens},
	})
	if err != nil {
		return "", err
	}
	var out GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return out.Response, nil
}

// Embed returns one embedding vector per input text. The endpoint accepts
// a single prompt, so texts are embedded one request at a time.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		body, err := c.doRequest(ctx, "/api/embeddings", EmbeddingRequest{
			Model:  c.embeddingModel,
			Prompt: text,
		})
		if err != nil {
			return nil, err
		}
		var out EmbeddingResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode embedding response: %w", err)
		}
		vectors[i] = out.Embedding
	}
	return vectors, nil
}

func (c *Client) doRequest(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode ollama request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request ollama %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("ollama request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
