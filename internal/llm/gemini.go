package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/config"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/models"
)

// GeminiClient talks to the hosted Gemini API for both embeddings and chat
// completions. Document and query embeddings carry the retrieval task
// intents the asymmetric embedding model expects.
type GeminiClient struct {
	client *genai.Client
	cfg    *config.LLMConfig
}

func NewGeminiClient(ctx context.Context, cfg *config.LLMConfig, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{client: client, cfg: cfg}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// EmbedDocuments batch-embeds chunk texts with indexing intent. The API
// caps batch size, so the input is sub-batched; results stay in input order.
func (c *GeminiClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	em := c.client.EmbeddingModel(c.cfg.EmbeddingModel)
	em.TaskType = genai.TaskTypeRetrievalDocument

	batchSize := c.cfg.EmbedBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := em.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}
		res, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("gemini: batch embed: %w", err)
		}
		for _, emb := range res.Embeddings {
			vectors = append(vectors, emb.Values)
		}
	}
	return vectors, nil
}

func (c *GeminiClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	em := c.client.EmbeddingModel(c.cfg.EmbeddingModel)
	em.TaskType = genai.TaskTypeRetrievalQuery
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini: embed query: %w", err)
	}
	return res.Embedding.Values, nil
}

// Chat sends the history plus the newest turn with the fixed generation
// config and returns the model reply verbatim.
func (c *GeminiClient) Chat(ctx context.Context, params ChatParams) (string, error) {
	model := c.client.GenerativeModel(c.cfg.ChatModel)
	model.SetTemperature(params.Temperature)
	model.SetMaxOutputTokens(c.cfg.MaxOutputTokens)
	model.SetTopP(c.cfg.TopP)
	model.SetTopK(c.cfg.TopK)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(models.SystemPrompt)},
	}

	session := model.StartChat()
	session.History = make([]*genai.Content, 0, 2*len(params.History))
	for _, turn := range params.History {
		session.History = append(session.History,
			&genai.Content{Role: "user", Parts: []genai.Part{genai.Text(turn.User)}},
			&genai.Content{Role: "model", Parts: []genai.Part{genai.Text(turn.Model)}},
		)
	}

	resp, err := session.SendMessage(ctx, genai.Text(params.Message))
	if err != nil {
		return "", fmt.Errorf("gemini: send message: %w", err)
	}
	return responseText(resp), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}
