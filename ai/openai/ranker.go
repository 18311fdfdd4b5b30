package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/sitesearch/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrConfigRequired is returned when NewRanker is called without a config.
var ErrConfigRequired = errors.New("ai config is required")

// Ranker implements ai.Ranker using an OpenAI-compatible chat API in JSON mode.
type Ranker struct {
	client      llms.Model
	temperature float64
	logger      *slog.Logger
}

var _ ai.Ranker = (*Ranker)(nil)

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLogger sets the logger for the ranker.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		r.logger = logger
		return nil
	}
}

// WithClient replaces the langchaingo model built from the config.
func WithClient(client llms.Model) Option {
	return func(r *Ranker) error {
		if client == nil {
			return errors.New("client cannot be nil")
		}
		r.client = client
		return nil
	}
}

// NewRanker creates a ranker from a complete configuration.
// The configuration is normalized and validated first.
func NewRanker(config *ai.Config, opts ...Option) (*Ranker, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	r := &Ranker{
		client:      client,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "openai-ranker"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// rankResponse mirrors the {"ids": [...]} schema. Entries stay raw so that
// non-string values are detected instead of silently dropped.
type rankResponse struct {
	IDs *[]json.RawMessage `json:"ids"`
}

// Rank asks the model to order candidates by relevance to query.
// It makes exactly one call and does not retry.
func (r *Ranker) Rank(ctx context.Context, query string, candidates []ai.Candidate, limit int) ([]string, error) {
	if limit <= 0 || len(candidates) == 0 {
		return nil, ai.ErrNoRanking
	}
	if limit > len(candidates) {
		limit = len(candidates)
	}

	userPrompt, err := buildUserPrompt(scrubQuery(query), candidates, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrRankingFailed, err)
	}
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt(limit))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	response, err := r.client.GenerateContent(ctx, content,
		llms.WithTemperature(r.temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrRankingFailed, err)
	}
	if len(response.Choices) < 1 {
		return nil, fmt.Errorf("%w: no choices returned", ai.ErrMalformedResponse)
	}

	ids, err := parseRankResponse(response.Choices[0].Content)
	if err != nil {
		r.logger.Debug("unusable ranking response", "response", response.Choices[0].Content, "err", err)
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ai.ErrNoRanking
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	r.logger.Debug("ranked candidates", "candidates", len(candidates), "ids", len(ids))
	return ids, nil
}

// parseRankResponse decodes model output strictly: the ids field must be
// present and must be an array of strings.
func parseRankResponse(text string) ([]string, error) {
	text = repairJSON(stripCodeFences(text))

	var resp rankResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}
	if resp.IDs == nil {
		return nil, fmt.Errorf("%w: missing ids", ai.ErrMalformedResponse)
	}

	ids := make([]string, 0, len(*resp.IDs))
	for i, raw := range *resp.IDs {
		var id string
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte(`"`)) || json.Unmarshal(raw, &id) != nil {
			return nil, fmt.Errorf("%w: ids[%d] is not a string", ai.ErrMalformedResponse, i)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
