package inference

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"

	"dealradar/internal/infrastructure/vectorstore"
)

var thinkBlockPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Client wraps a single Ollama endpoint serving both the generative model
// and the embedding model. Stateless between calls; safe for concurrent use.
type Client struct {
	client         *ollama.Client
	model          string
	embeddingModel string
	timeout        time.Duration
}

type Config struct {
	BaseURL        string
	Model          string
	EmbeddingModel string
	Timeout        time.Duration
}

func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		client:         ollama.NewClient(baseURL, httpClient),
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		timeout:        cfg.Timeout,
	}, nil
}

// Generate runs a single completion over the full prompt and returns the
// accumulated text with any reasoning block stripped.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var response strings.Builder

	err := c.client.Generate(ctx, &ollama.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Options: map[string]any{
			"temperature": 0.2,
		},
	}, func(res ollama.GenerateResponse) error {
		response.WriteString(res.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	return removeThinkBlock(response.String()), nil
}

// Embed encodes text into an L2-normalized vector. Pure function of the text
// and the configured embedding model; empty text is passed through to the
// model's own representation, not special-cased here.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Embeddings(ctx, &ollama.EmbeddingRequest{
		Model:  c.embeddingModel,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}

	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding returned for model %s", c.embeddingModel)
	}

	vector := make([]float64, len(resp.Embedding))
	copy(vector, resp.Embedding)

	vectorstore.Normalize(vector)

	return vector, nil
}

// EmbeddingModel identifies the encoder; the similarity index validates this
// against the model it was built with.
func (c *Client) EmbeddingModel() string {
	return c.embeddingModel
}

func removeThinkBlock(input string) string {
	return strings.TrimSpace(thinkBlockPattern.ReplaceAllString(input, ""))
}
