// ABOUTME: OpenAI-backed rephraser that rewrites a composed guidance message in the user's tone
// ABOUTME: Verse text and reference must survive rewriting; callers fall back to the template on error
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/devotional/internal/models"
	"github.com/harper/devotional/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	DefaultTimeout   = 30 * time.Second
)

// ErrDroppedScripture is returned when the model's rewrite loses the quoted reference or verse
var ErrDroppedScripture = errors.New("rephrased message dropped required scripture text")

// Config holds configuration for the OpenAI rephraser
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the default configuration for an API key
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:     apiKey,
		Model:      DefaultChatModel,
		Timeout:    DefaultTimeout,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// Rephraser rewrites assistant messages with an OpenAI chat model
type Rephraser struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewRephraser creates a rephraser from cfg
func NewRephraser(cfg Config) (*Rephraser, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Rephraser{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Model returns the chat model in use
func (r *Rephraser) Model() string {
	return r.model
}

const systemPrompt = `You are a warm, careful devotional companion. Rewrite the assistant message you are given so it fits the user's mood, concern, and preferred tone.

Rules:
- Keep every quoted verse and every scripture reference exactly as written.
- Do not add new verses, references, or doctrinal claims.
- Keep it under 120 words.
- Return only the rewritten message. No preamble.`

// Rephrase rewrites draft for profile. Every string in keep must appear verbatim in the result.
func (r *Rephraser) Rephrase(ctx context.Context, profile models.UserProfile, draft string, keep []string) (string, error) {
	p := profile.Normalize()
	userPrompt := fmt.Sprintf("Mood: %s\nConcern: %s\nTone: %s\n\nMessage:\n%s",
		orUnknown(p.Mood), orUnknown(p.Concern), orUnknown(p.Tone), draft)

	var out string
	err := util.Retry(ctx, r.maxRetries, r.retryDelay, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		resp, err := r.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: r.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: 0.4,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("no completion choices returned")
		}

		text := strings.TrimSpace(resp.Choices[0].Message.Content)
		if text == "" {
			return errors.New("empty completion")
		}
		for _, k := range keep {
			if k != "" && !strings.Contains(text, k) {
				return fmt.Errorf("%w: %q", ErrDroppedScripture, k)
			}
		}
		out = text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to rephrase message: %w", err)
	}
	return out, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}
