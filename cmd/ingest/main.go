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
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/ingest"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/llm"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/store"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	dataDir := flag.String("data", "", "Directory of source documents (overrides config)")
	flag.Parse()

	// .env is optional; the environment itself may carry the key
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Warn().Err(err).Msg("Config file not loaded, using defaults")
		cfg = config.Default()
	}

	dir := cfg.RAG.DataDir
	if *dataDir != "" {
		dir = *dataDir
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("Error creating documents directory")
		}
		log.Warn().Str("dir", dir).Msg("Documents directory was missing and has been created; add PDF/DOCX files and re-run")
		return
	}

	// missing credential is fatal for the ingestion tool
	apiKey := config.APIKey(cfg.LLM.Provider)
	if apiKey == "" {
		log.Fatal().Msg("Model API key is not set (GOOGLE_API_KEY / GEMINI_API_KEY)")
	}

	ctx := context.Background()

	client, err := llm.New(ctx, &cfg.LLM, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing model client")
	}
	defer client.Close()

	st, err := store.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}

	pipeline := ingest.NewPipeline(st, client, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	stats, err := pipeline.Run(ctx, dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	if stats.Chunks == 0 {
		return
	}
	log.Info().
		Str("collection", cfg.RAG.Collection).
		Int("files", stats.Files).
		Int("chunks", stats.Chunks).
		Int("records", stats.Records).
		Msg("Vector database built")
}
