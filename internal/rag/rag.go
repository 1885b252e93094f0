package rag

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/llm"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/models"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/store"
)

// Service holds the immutable-after-init request-handling context: the
// store handle, the embedding client and the chat client. Either the store
// or the chatter may be nil, which puts the service in a degraded mode
// (no retrieval / refuse with a configuration error respectively).
type Service struct {
	store    store.Store
	embedder llm.Embedder
	chatter  llm.Chatter
	topK     int
}

func NewService(st store.Store, embedder llm.Embedder, chatter llm.Chatter, topK int) *Service {
	if topK <= 0 {
		topK = 3
	}
	return &Service{store: st, embedder: embedder, chatter: chatter, topK: topK}
}

// Ready reports whether the chat model credential was present at startup.
// The handler checks this before attempting any network call.
func (s *Service) Ready() bool {
	return s.chatter != nil
}

// Retrieve embeds the question with query intent and returns the top-k
// nearest chunks. Callers decide how to treat errors; Answer collapses
// them to "no context".
func (s *Service) Retrieve(ctx context.Context, question string) ([]store.Result, error) {
	if s.store == nil || s.embedder == nil {
		return nil, nil
	}
	embedding, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, err
	}
	return s.store.Query(ctx, embedding, s.topK)
}

// Answer runs the full retrieval-augmented turn: retrieve context, build
// the prompt, dispatch to the chat model with the rebuilt history. Any
// retrieval problem degrades to a plain chat turn; only a chat-model
// failure is returned.
func (s *Service) Answer(ctx context.Context, req *models.ChatRequest) (string, error) {
	question := strings.TrimSpace(req.Message)

	contextBlock := ""
	results, err := s.Retrieve(ctx, question)
	if err != nil {
		// quota or network trouble on the optional path; proceed without context
		log.Warn().Err(err).Msg("Retrieval failed, answering without context")
	} else {
		contextBlock = buildContextBlock(results)
	}

	return s.chatter.Chat(ctx, llm.ChatParams{
		Message:     contextBlock + models.QuestionPrefix + question,
		History:     req.Turns(),
		Temperature: req.Temperature.Clamp(),
	})
}

// buildContextBlock wraps the retrieved passages between the start/end
// markers, one passage per line, in relevance order. No results means no
// block at all.
func buildContextBlock(results []store.Result) string {
	if len(results) == 0 {
		return ""
	}
	var block strings.Builder
	block.WriteString(models.ContextHeader)
	for _, r := range results {
		block.WriteString("- ")
		block.WriteString(r.Content)
		block.WriteString("\n")
	}
	block.WriteString(models.ContextFooter)
	return block.String()
}
