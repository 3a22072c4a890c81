package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	AudioStorageNone  = "none"
	AudioStorageLocal = "local"
	AudioStorageS3    = "s3"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Ai       AIConfig
	Search   SearchConfig
	Audio    AudioConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	BodyLimitMB        int
	NatsURL            string // optional; activity events are forwarded when set
	RedisURL           string // optional; shared AI rate limit when set
}

func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

type DatabaseConfig struct {
	Driver     string
	Connection string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type AIConfig struct {
	Provider           string // "openai", "ollama", "huggingface"
	APIKey             string
	BaseURL            string
	SummaryModel       string
	TranscriptionModel string
	Timeout            time.Duration
	RateLimitPerMinute int
}

type SearchConfig struct {
	RelevanceFloor float64
}

type AudioConfig struct {
	Storage     string
	LocalDir    string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 25),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		Ai: AIConfig{
			Provider:           strings.ToLower(getEnv("AI_PROVIDER", "openai")),
			APIKey:             getEnv("AI_API_KEY", ""),
			BaseURL:            getEnv("AI_BASE_URL", ""),
			SummaryModel:       getEnv("AI_SUMMARY_MODEL", "gpt-4o-mini"),
			TranscriptionModel: getEnv("AI_TRANSCRIPTION_MODEL", "whisper-1"),
			Timeout:            getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
			RateLimitPerMinute: getEnvAsInt("AI_RATE_LIMIT_PER_MINUTE", 20),
		},
		Search: SearchConfig{
			RelevanceFloor: getEnvAsFloat("SEARCH_RELEVANCE_FLOOR", 0),
		},
		Audio: AudioConfig{
			Storage:     strings.ToLower(getEnv("AUDIO_STORAGE", AudioStorageNone)),
			LocalDir:    getEnv("AUDIO_LOCAL_DIR", "uploads"),
			S3Bucket:    getEnv("S3_BUCKET", ""),
			S3Region:    getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("S3_ENDPOINT", ""),
			S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		Tracing: TracingConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

// Validate checks every section and reports the first failing one.
func (c *Config) Validate() error {
	sections := []struct {
		name string
		fn   func() error
	}{
		{"app", c.App.Validate},
		{"database", c.Database.Validate},
		{"auth", c.Auth.Validate},
		{"ai", c.Ai.Validate},
		{"search", c.Search.Validate},
		{"audio", c.Audio.Validate},
	}
	for _, s := range sections {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c AppConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.BodyLimitMB, validation.Required, validation.Min(1)),
	)
}

func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverPostgres, DriverMemory)),
		validation.Field(&c.Connection, validation.When(c.Driver == DriverPostgres, validation.Required)),
	)
}

func (c AuthConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.JWTSecret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.TokenTTL, validation.Required, validation.Min(time.Minute)),
	)
}

func (c AIConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Provider, validation.Required, validation.In("openai", "ollama", "huggingface")),
		validation.Field(&c.APIKey, validation.When(c.Provider == "openai" && c.BaseURL == "", validation.Required)),
		validation.Field(&c.BaseURL, validation.When(c.BaseURL != "", is.URL)),
		validation.Field(&c.SummaryModel, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RateLimitPerMinute, validation.Min(0)),
	)
}

func (c SearchConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.RelevanceFloor, validation.Min(0.0)),
	)
}

func (c AudioConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Storage, validation.Required, validation.In(AudioStorageNone, AudioStorageLocal, AudioStorageS3)),
		validation.Field(&c.LocalDir, validation.When(c.Storage == AudioStorageLocal, validation.Required)),
		validation.Field(&c.S3Bucket, validation.When(c.Storage == AudioStorageS3, validation.Required)),
		validation.Field(&c.S3Region, validation.When(c.Storage == AudioStorageS3, validation.Required)),
	)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
