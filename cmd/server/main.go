package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/config"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/llm"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/rag"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/server"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/store"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Warn().Err(err).Msg("Config file not loaded, using defaults")
		cfg = config.Default()
	}

	ctx := context.Background()

	// A missing key degrades the service instead of crashing it: /chat
	// answers with a configuration error until the key is provided.
	var client llm.Client
	apiKey := config.APIKey(cfg.LLM.Provider)
	if apiKey == "" {
		log.Warn().Msg("Model API key is not set; serving without the chat model")
	} else {
		client, err = llm.New(ctx, &cfg.LLM, apiKey)
		if err != nil {
			log.Error().Err(err).Msg("Error initializing model client; serving without it")
			client = nil
		}
	}

	// A broken store only disables retrieval; chat still works plain.
	var st store.Store
	st, err = store.Open(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Vector store unavailable, retrieval disabled; run the ingest tool first")
		st = nil
	} else {
		log.Info().Str("collection", cfg.RAG.Collection).Msg("Vector store loaded, retrieval active")
	}

	var embedder llm.Embedder
	var chatter llm.Chatter
	if client != nil {
		embedder, chatter = client, client
	}

	svc := rag.NewService(st, embedder, chatter, cfg.RAG.TopK)
	srv := server.New(&cfg.Server, svc)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
