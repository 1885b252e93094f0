package llm

import (
	"context"
	"fmt"

	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/config"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/models"
)

// Embedder obtains vectors from the remote embedding model. Documents and
// queries use different task intents because asymmetric models encode the
// two sides of a search pair differently.
type Embedder interface {
	// EmbedDocuments returns exactly one vector per input text, in input
	// order, with indexing intent.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedQuery embeds a single query string with retrieval intent.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ChatParams is one invocation of the hosted chat model. Temperature is
// already clamped; the remaining generation settings are fixed per client.
type ChatParams struct {
	Message     string
	History     []models.Turn
	Temperature float32
}

// Chatter configures and invokes the hosted chat model.
type Chatter interface {
	Chat(ctx context.Context, params ChatParams) (string, error)
}

// Client bundles the embedding and chat side of one provider.
type Client interface {
	Embedder
	Chatter
	Close() error
}

// New builds the provider selected by the config. The apiKey must be
// non-empty; callers handle the degraded no-credential mode themselves.
func New(ctx context.Context, cfg *config.LLMConfig, apiKey string) (Client, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiClient(ctx, cfg, apiKey)
	case "openai":
		return NewOpenAIClient(cfg, apiKey)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
