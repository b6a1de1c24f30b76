package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type SchedulerMode string

const (
	ModeInterval SchedulerMode = "interval"
	ModePolling  SchedulerMode = "polling"
)

type MemoryBackend string

const (
	MemoryFile   MemoryBackend = "file"
	MemoryChroma MemoryBackend = "chroma"
)

type Config struct {
	// Google access
	GoogleServiceKey   string `env:"GOOGLE_SERVICE_KEY,required"` // service-account JSON, Sheets scope
	GoogleTokenJSON    string `env:"GOOGLE_TOKEN_JSON"`           // OAuth2 token JSON for Gmail send
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// Spreadsheet
	SpreadsheetID string `env:"SPREADSHEET_ID,required"`
	SheetName     string `env:"SHEET_NAME" envDefault:"Book(Sheet1)"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENROUTER_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Embeddings (vector memory backend)
	EmbeddingAPIKey  string `env:"EMBEDDING_API_KEY"`
	EmbeddingBaseURL string `env:"EMBEDDING_BASE_URL"`
	EmbeddingModel   string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	// Memory
	MemoryBackend    MemoryBackend `env:"MEMORY_BACKEND" envDefault:"file"`
	MemoryFilePath   string        `env:"MEMORY_FILE_PATH" envDefault:"data/agent_memory.jsonl"`
	ChromaAPIKey     string        `env:"CHROMA_API_KEY"`
	ChromaTenant     string        `env:"CHROMA_TENANT"`
	ChromaDatabase   string        `env:"CHROMA_DATABASE"`
	ChromaCollection string        `env:"CHROMA_COLLECTION" envDefault:"agent-memory"`

	// Scheduler
	SchedulerMode   SchedulerMode `env:"SCHEDULER_MODE" envDefault:"interval"`
	RunEveryMinutes int           `env:"RUN_EVERY_MINUTES" envDefault:"5"`
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"60s"`

	// Control server
	Port int `env:"PORT" envDefault:"3000"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
