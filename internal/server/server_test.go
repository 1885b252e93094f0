package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/config"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/llm"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/models"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/rag"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubEmbedder struct{ fail bool }

func (s *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("not used in serving")
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if s.fail {
		return nil, fmt.Errorf("embedding unavailable")
	}
	return []float32{1, 0, 0}, nil
}

type stubChatter struct {
	reply  string
	fail   bool
	called int
}

func (s *stubChatter) Chat(ctx context.Context, params llm.ChatParams) (string, error) {
	s.called++
	if s.fail {
		return "", fmt.Errorf("model quota exceeded")
	}
	return s.reply, nil
}

func newTestServer(svc *rag.Service) *Server {
	return New(&config.ServerConfig{Host: "127.0.0.1", Port: 0}, svc)
}

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decodeAnswer(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Answer
}

func readyService(chatter llm.Chatter, st store.Store) *rag.Service {
	return rag.NewService(st, &stubEmbedder{}, chatter, 3)
}

func TestChatBlankMessage(t *testing.T) {
	chatter := &stubChatter{reply: "cevap"}
	srv := newTestServer(readyService(chatter, nil))

	for _, body := range []string{`{"mesaj":""}`, `{"mesaj":"   "}`, `{}`} {
		w := postChat(t, srv, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, models.MsgEmptyMessage, decodeAnswer(t, w))
	}
	assert.Zero(t, chatter.called)
}

func TestChatMalformedBody(t *testing.T) {
	srv := newTestServer(readyService(&stubChatter{}, nil))
	w := postChat(t, srv, `{"mesaj": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatMissingCredential(t *testing.T) {
	// no chatter configured: the configuration error must surface before
	// any model or embedding call
	embedder := &stubEmbedder{fail: true}
	svc := rag.NewService(nil, embedder, nil, 3)
	srv := newTestServer(svc)

	w := postChat(t, srv, `{"mesaj":"merhaba"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, models.MsgMissingAPIKey, decodeAnswer(t, w))
}

func TestChatSuccess(t *testing.T) {
	chatter := &stubChatter{reply: "Kapsülleme veriyi gizler."}
	srv := newTestServer(readyService(chatter, nil))

	w := postChat(t, srv, `{"mesaj":"Kapsülleme nedir?","gecmis":[["hi","hello"]],"temperature":0.5}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Kapsülleme veriyi gizler.", decodeAnswer(t, w))
	assert.Equal(t, 1, chatter.called)
}

func TestChatEmptyCollectionStillAnswers(t *testing.T) {
	// an uninitialized store must degrade to a plain reply, never a 500
	st := store.NewMemoryStore("test_collection")
	chatter := &stubChatter{reply: "genel cevap"}
	srv := newTestServer(readyService(chatter, st))

	w := postChat(t, srv, `{"mesaj":"soru"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "genel cevap", decodeAnswer(t, w))
}

func TestChatRetrievalFailureStillAnswers(t *testing.T) {
	st := store.NewMemoryStore("test_collection")
	chatter := &stubChatter{reply: "cevap"}
	svc := rag.NewService(st, &stubEmbedder{fail: true}, chatter, 3)
	srv := newTestServer(svc)

	w := postChat(t, srv, `{"mesaj":"soru"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatModelFailureIsSanitized(t *testing.T) {
	chatter := &stubChatter{fail: true}
	srv := newTestServer(readyService(chatter, nil))

	w := postChat(t, srv, `{"mesaj":"soru"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	answer := decodeAnswer(t, w)
	assert.Equal(t, models.MsgGenericFailure, answer)
	assert.NotContains(t, answer, "quota")
}

func TestChatInvalidTemperatureStillAnswers(t *testing.T) {
	chatter := &stubChatter{reply: "cevap"}
	srv := newTestServer(readyService(chatter, nil))

	w := postChat(t, srv, `{"mesaj":"soru","temperature":"abc"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(readyService(&stubChatter{reply: "ok"}, nil))
	w := postChat(t, srv, `{"mesaj":"soru"}`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
