package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 100
	defaultTopK         = 3
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	RAG    RAGConfig    `yaml:"rag"`
	LLM    LLMConfig    `yaml:"llm"`
	Store  StoreConfig  `yaml:"store"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RAGConfig controls the ingestion and retrieval pipeline.
type RAGConfig struct {
	DataDir      string `yaml:"data_dir"`
	Collection   string `yaml:"collection"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
}

// LLMConfig selects the hosted model provider and its generation settings.
// Provider "gemini" is the default; "openai" targets any OpenAI-compatible
// endpoint via BaseURL but carries no retrieval task-intent hints.
type LLMConfig struct {
	Provider        string  `yaml:"provider"`
	ChatModel       string  `yaml:"chat_model"`
	EmbeddingModel  string  `yaml:"embedding_model"`
	BaseURL         string  `yaml:"base_url"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
	TopP            float32 `yaml:"top_p"`
	TopK            int32   `yaml:"top_k"`
	EmbedBatchSize  int     `yaml:"embed_batch_size"`
}

// StoreConfig selects the vector store backend. Type "chromem" (default)
// persists under Path; "postgres" expects a pgvector-enabled DSN.
type StoreConfig struct {
	Type  string `yaml:"type"`
	Path  string `yaml:"path"`
	DSN   string `yaml:"dsn"`
	Debug bool   `yaml:"debug"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.RAG.DataDir == "" {
		cfg.RAG.DataDir = "data"
	}
	if cfg.RAG.Collection == "" {
		cfg.RAG.Collection = "oop_bootcamp_dokumanlari"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = defaultChunkSize
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = defaultTopK
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.LLM.ChatModel == "" {
		cfg.LLM.ChatModel = "gemini-2.0-flash"
	}
	if cfg.LLM.EmbeddingModel == "" {
		cfg.LLM.EmbeddingModel = "text-embedding-004"
	}
	if cfg.LLM.MaxOutputTokens == 0 {
		cfg.LLM.MaxOutputTokens = 1000
	}
	if cfg.LLM.TopP == 0 {
		cfg.LLM.TopP = 0.82
	}
	if cfg.LLM.TopK == 0 {
		cfg.LLM.TopK = 40
	}
	if cfg.LLM.EmbedBatchSize == 0 {
		cfg.LLM.EmbedBatchSize = 100
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "chromem"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./chroma_db_files"
	}
}

// APIKey resolves the model credential for the given provider from the
// environment. Returns "" when unset; callers decide whether that is fatal.
func APIKey(provider string) string {
	if provider == "openai" {
		return os.Getenv("OPENAI_API_KEY")
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GEMINI_API_KEY")
}
