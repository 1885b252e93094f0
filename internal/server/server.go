package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/config"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/models"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/rag"
)

// Server wires the chat service onto the HTTP surface.
type Server struct {
	cfg    *config.ServerConfig
	svc    *rag.Service
	router *gin.Engine
}

func New(cfg *config.ServerConfig, svc *rag.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	s := &Server{cfg: cfg, svc: svc, router: router}

	router.GET("/", s.handleIndex)
	router.Static("/static", "./web/static")
	router.POST("/chat", s.handleChat)

	return s
}

// Router exposes the handler stack for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	log.Info().Str("addr", addr).Msg("Starting chat service")
	return s.router.Run(addr)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.File("./web/index.html")
}

// handleChat is the synchronous retrieval-augmented chat turn. Retrieval
// problems never produce an error status; only a blank message, a missing
// credential, or a chat-model failure do.
func (s *Server) handleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ChatResponse{Answer: models.MsgEmptyMessage})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, models.ChatResponse{Answer: models.MsgEmptyMessage})
		return
	}

	// checked before any network call
	if !s.svc.Ready() {
		log.Error().Msg("Chat request rejected: model API key is missing")
		c.JSON(http.StatusInternalServerError, models.ChatResponse{Answer: models.MsgMissingAPIKey})
		return
	}

	answer, err := s.svc.Answer(c.Request.Context(), &req)
	if err != nil {
		// detail stays in the logs; the caller gets one sanitized message
		log.Error().Err(err).Msg("Chat model call failed")
		c.JSON(http.StatusInternalServerError, models.ChatResponse{Answer: models.MsgGenericFailure})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Answer: answer})
}
