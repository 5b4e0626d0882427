package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"cryptopulse/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// BatchScorer refines heuristic sentiment with a pretrained model.
type BatchScorer interface {
	ScoreBatch(ctx context.Context, texts []string) ([]domain.SentimentResult, error)
}

type openAIChatClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OpenAIScorer scores texts in batches through the chat completions API.
type OpenAIScorer struct {
	client openAIChatClient
	model  string
}

// NewOpenAIScorer returns nil when no API key is configured, which disables
// LLM refinement.
func NewOpenAIScorer(apiKey, model string) *OpenAIScorer {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIScorer{
		client: &openAIClient{client: client},
		model:  model,
	}
}

// ScoreBatch returns one result per input text, in input order. Texts the
// model skipped keep a zero-value entry the caller falls back on.
func (s *OpenAIScorer) ScoreBatch(ctx context.Context, texts []string) ([]domain.SentimentResult, error) {
	if s == nil || s.client == nil || len(texts) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	for i, text := range texts {
		sb.WriteString(fmt.Sprintf("id=%d\n", i))
		sb.WriteString(fmt.Sprintf("text=%s\n\n", Preprocess(text)))
	}

	systemPrompt := "You score the sentiment of cryptocurrency social media posts. " +
		"Return ONLY a JSON array. Each object requires: id (int), " +
		"negative (0..1), neutral (0..1), positive (0..1), " +
		"label (negative|neutral|positive). The three scores must sum to 1. No markdown."
	userPrompt := "Texts:\n" + sb.String()

	completion, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty scorer completion")
	}

	raw := trimCodeFence(completion.Choices[0].Message.Content)

	var parsed []struct {
		ID       int     `json:"id"`
		Negative float64 `json:"negative"`
		Neutral  float64 `json:"neutral"`
		Positive float64 `json:"positive"`
		Label    string  `json:"label"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse scorer json: %w", err)
	}

	sort.Slice(parsed, func(i, j int) bool { return parsed[i].ID < parsed[j].ID })

	out := make([]domain.SentimentResult, len(texts))
	for _, row := range parsed {
		if row.ID < 0 || row.ID >= len(texts) {
			continue
		}
		scores := domain.SentimentScores{
			Negative: clamp(row.Negative, 0, 1),
			Neutral:  clamp(row.Neutral, 0, 1),
			Positive: clamp(row.Positive, 0, 1),
		}
		label := normalizeLabel(row.Label)
		out[row.ID] = domain.SentimentResult{
			Text:       Preprocess(texts[row.ID]),
			Sentiment:  label,
			Confidence: confidenceFor(label, scores),
			Scores:     scores,
			Model:      "llm:" + s.model,
		}
	}
	return out, nil
}

func confidenceFor(label string, scores domain.SentimentScores) float64 {
	switch label {
	case LabelPositive:
		return scores.Positive
	case LabelNegative:
		return scores.Negative
	default:
		return scores.Neutral
	}
}

func trimCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		v = strings.TrimSpace(v)
		if strings.HasPrefix(strings.ToLower(v), "json") {
			v = strings.TrimSpace(v[4:])
		}
		v = strings.TrimSuffix(v, "```")
		v = strings.TrimSpace(v)
	}
	return v
}

type openAIClient struct {
	client openai.Client
}

func (c *openAIClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
