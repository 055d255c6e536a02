package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs"`
	Dedup      DedupConfig      `mapstructure:"dedup"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type OpenAIConfig struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	EmbeddingModel      string `mapstructure:"embedding_model"`
	EmbeddingDimensions int    `mapstructure:"embedding_dimensions"`
	ExtractionModel     string `mapstructure:"extraction_model"`
	TranscriptionModel  string `mapstructure:"transcription_model"`
}

type ElevenLabsConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	BaseURL         string  `mapstructure:"base_url"`
	DurationSeconds int     `mapstructure:"duration_seconds"`
	PromptInfluence float64 `mapstructure:"prompt_influence"`
}

type DedupConfig struct {
	ReuseThreshold float64 `mapstructure:"reuse_threshold"`
	EmbedWorkers   int     `mapstructure:"embed_workers"`
	PartialResults bool    `mapstructure:"partial_results"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/soundeffects.db")
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "sound-effects")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.embedding_model", "text-embedding-3-large")
	v.SetDefault("openai.embedding_dimensions", 3072)
	v.SetDefault("openai.extraction_model", "gpt-4o")
	v.SetDefault("openai.transcription_model", "whisper-1")
	v.SetDefault("elevenlabs.base_url", "https://api.elevenlabs.io/v1")
	v.SetDefault("elevenlabs.duration_seconds", 10)
	v.SetDefault("elevenlabs.prompt_influence", 0.3)
	v.SetDefault("dedup.reuse_threshold", 0.9)
	v.SetDefault("dedup.embed_workers", 4)
	v.SetDefault("dedup.partial_results", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.dsn", "DATABASE_DSN")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.use_ssl", "STORAGE_USE_SSL")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("elevenlabs.api_key", "ELEVENLABS_API_KEY")
	v.BindEnv("dedup.reuse_threshold", "DEDUP_REUSE_THRESHOLD")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
