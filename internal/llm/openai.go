package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/config"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/models"
)

// OpenAIClient targets any OpenAI-compatible endpoint (OpenRouter, a local
// gateway, ...). The embeddings API on this path has no task-intent hint,
// so documents and queries are encoded symmetrically.
type OpenAIClient struct {
	embedder *embeddings.EmbedderImpl
	chatLLM  *openai.LLM
	cfg      *config.LLMConfig
}

func NewOpenAIClient(cfg *config.LLMConfig, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	token := strings.TrimPrefix(apiKey, "Bearer ")

	opts := []openai.Option{openai.WithToken(token)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	embedLLM, err := openai.New(append(opts, openai.WithModel(cfg.EmbeddingModel))...)
	if err != nil {
		return nil, fmt.Errorf("openai: create embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(embedLLM)
	if err != nil {
		return nil, fmt.Errorf("openai: create embedder: %w", err)
	}

	chatLLM, err := openai.New(append(opts, openai.WithModel(cfg.ChatModel))...)
	if err != nil {
		return nil, fmt.Errorf("openai: create chat client: %w", err)
	}

	return &OpenAIClient{embedder: embedder, chatLLM: chatLLM, cfg: cfg}, nil
}

func (c *OpenAIClient) Close() error { return nil }

func (c *OpenAIClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.embedder.EmbedDocuments(ctx, texts)
}

func (c *OpenAIClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embedder.EmbedQuery(ctx, text)
}

func (c *OpenAIClient) Chat(ctx context.Context, params ChatParams) (string, error) {
	messages := make([]llms.MessageContent, 0, 2*len(params.History)+2)
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextContent{Text: models.SystemPrompt}},
	})
	for _, turn := range params.History {
		messages = append(messages,
			llms.MessageContent{
				Role:  llms.ChatMessageTypeHuman,
				Parts: []llms.ContentPart{llms.TextContent{Text: turn.User}},
			},
			llms.MessageContent{
				Role:  llms.ChatMessageTypeAI,
				Parts: []llms.ContentPart{llms.TextContent{Text: turn.Model}},
			},
		)
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextContent{Text: params.Message}},
	})

	resp, err := c.chatLLM.GenerateContent(ctx, messages,
		llms.WithTemperature(float64(params.Temperature)),
		llms.WithMaxTokens(int(c.cfg.MaxOutputTokens)),
		llms.WithTopP(float64(c.cfg.TopP)),
	)
	if err != nil {
		return "", fmt.Errorf("openai: generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return resp.Choices[0].Content, nil
}
