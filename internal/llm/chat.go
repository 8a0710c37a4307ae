package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/jask/omnibar/internal/intent"
)

const defaultChatModel = "gpt-4o-mini"

const systemPrompt = `You classify requests typed into a French real-estate CRM command palette.
Return ONLY valid JSON with keys:
  type: one of SEARCH, CREATE, STATUS_CHANGE, SEND_MESSAGE, NAVIGATE, UNKNOWN
  confidence: number between 0 and 1
  params: object with optional string keys propertyType, city, budget, personName, status
  description: short French sentence saying what will be done
Cities are lowercase without accents. Budget is digits only, in MAD.
Status is one of NEW, QUALIFYING, QUALIFIED, APPOINTMENT, WON, LOST.`

// ChatClassifier asks an OpenAI-compatible chat model for the intent.
type ChatClassifier struct {
	client llms.Model
	log    *slog.Logger
}

var _ intent.Classifier = (*ChatClassifier)(nil)

// NewChatClassifier connects to an OpenAI-compatible endpoint. An empty
// baseURL uses the public OpenAI API, which requires apiKey.
func NewChatClassifier(baseURL, model, apiKey string) (*ChatClassifier, error) {
	apiKey = strings.TrimSpace(apiKey)
	baseURL = strings.TrimSpace(baseURL)
	if apiKey == "" {
		if baseURL == "" {
			return nil, ErrNoAPIKey
		}
		// local OpenAI-compatible servers accept any token
		apiKey = "none"
	}
	if strings.TrimSpace(model) == "" {
		model = defaultChatModel
	}
	opts := []openai.Option{openai.WithToken(apiKey), openai.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	return newChatClassifier(client), nil
}

func newChatClassifier(client llms.Model) *ChatClassifier {
	return &ChatClassifier{client: client, log: slog.Default().With("component", "llm-chat")}
}

// Classify returns nil, nil when the model has nothing to say.
func (c *ChatClassifier) Classify(ctx context.Context, query string) (*intent.Intent, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	}
	resp, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0), llms.WithJSONMode(), llms.WithMaxTokens(300))
	if err != nil {
		return nil, fmt.Errorf("chat classify: %w", err)
	}
	if len(resp.Choices) == 0 {
		c.log.Debug("no choices returned from model")
		return nil, nil
	}

	var w wireIntent
	if err := decodeJSON(resp.Choices[0].Content, &w); err != nil {
		c.log.Warn("unparseable classifier reply", "reply", resp.Choices[0].Content, "err", err)
		return nil, fmt.Errorf("chat classify: parse reply: %w", err)
	}
	if w.Query == "" {
		w.Query = query
	}
	return w.toIntent(), nil
}
