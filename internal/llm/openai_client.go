// ABOUTME: OpenAI-backed clients for embeddings and grounded answer generation
// ABOUTME: Wraps go-openai with per-call timeouts and exponential-backoff retries
package llm

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/inextlabs/corpusqa/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = "text-embedding-3-small"
	// DefaultChatModel is the default model for answer generation
	DefaultChatModel = "gpt-4o-mini"
)

// ClientConfig holds configuration for the OpenAI-backed clients
type ClientConfig struct {
	APIKey          string
	BaseURL         string
	EmbeddingModel  string
	ChatModel       string
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	MaxAnswerTokens int
}

// OpenAIClient wraps the OpenAI API client with retry logic. It
// implements both Embedder and Generator.
type OpenAIClient struct {
	client          *openai.Client
	embeddingModel  string
	chatModel       string
	timeout         time.Duration
	maxRetries      int
	retryDelay      time.Duration
	maxAnswerTokens int
}

// NewOpenAIClient creates a new client from the given configuration.
func NewOpenAIClient(cfg ClientConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.MaxAnswerTokens <= 0 {
		cfg.MaxAnswerTokens = 300
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:          openai.NewClientWithConfig(apiCfg),
		embeddingModel:  cfg.EmbeddingModel,
		chatModel:       cfg.ChatModel,
		timeout:         cfg.Timeout,
		maxRetries:      cfg.MaxRetries,
		retryDelay:      cfg.RetryDelay,
		maxAnswerTokens: cfg.MaxAnswerTokens,
	}, nil
}

// ModelID returns the embedding model identifier. This is the identity
// persisted with the index and validated at load time.
func (c *OpenAIClient) ModelID() string {
	return c.embeddingModel
}

// EmbedBatch generates one L2-normalized embedding per input text,
// order-preserving. Retries with exponential backoff on remote failure.
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := util.Wait(ctx, util.CalculateBackoff(c.retryDelay, attempt)); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: openai.EmbeddingModel(c.embeddingModel),
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) != len(texts) {
			lastErr = fmt.Errorf("attempt %d: got %d embeddings for %d inputs", attempt+1, len(resp.Data), len(texts))
			continue
		}

		vectors := make([][]float32, len(resp.Data))
		for i, d := range resp.Data {
			v := make([]float32, len(d.Embedding))
			copy(v, d.Embedding)
			l2Normalize(v)
			vectors[i] = v
		}
		return vectors, nil
	}

	return nil, fmt.Errorf("%w: after %d attempts: %v", ErrEmbeddingService, c.maxRetries+1, lastErr)
}

// Generate produces answer text for a fully assembled prompt using the
// chat model. Temperature is pinned to 0 for reproducible answers.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := util.Wait(ctx, util.CalculateBackoff(c.retryDelay, attempt)); err != nil {
				return "", fmt.Errorf("%w: %v", ErrGenerationService, err)
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   c.maxAnswerTokens,
			Temperature: 0,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: after %d attempts: %v", ErrGenerationService, c.maxRetries+1, lastErr)
}

// l2Normalize scales v to unit length in place. Zero vectors are left
// unchanged.
func l2Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
