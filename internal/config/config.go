package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Sync    SyncConfig
	Azure   AzureConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// StoreConfig holds local persistence configuration
type StoreConfig struct {
	Path string
}

// SyncConfig holds remote sync bridge configuration. An empty MongoURI
// disables syncing entirely; the app then runs local-only.
type SyncConfig struct {
	MongoURI     string
	Database     string
	PollInterval time.Duration
}

// AzureConfig holds Azure service configuration
type AzureConfig struct {
	OpenAI OpenAIConfig
	Speech SpeechConfig
}

// OpenAIConfig holds Azure OpenAI configuration
type OpenAIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// SpeechConfig holds Azure Speech Service configuration
type SpeechConfig struct {
	SubscriptionKey string
	Region          string
	Voice           string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// AnalysisEnabled reports whether Azure OpenAI is fully configured.
func (c *Config) AnalysisEnabled() bool {
	return c.Azure.OpenAI.Endpoint != "" && c.Azure.OpenAI.APIKey != "" && c.Azure.OpenAI.Deployment != ""
}

// SpeechEnabled reports whether Azure Speech is fully configured.
func (c *Config) SpeechEnabled() bool {
	return c.Azure.Speech.SubscriptionKey != "" && c.Azure.Speech.Region != ""
}

// SyncEnabled reports whether the remote sync bridge is configured.
func (c *Config) SyncEnabled() bool {
	return c.Sync.MongoURI != ""
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Store defaults
	v.SetDefault("store.path", "./data/medtrack")

	// Sync defaults
	v.SetDefault("sync.database", "medtrack")
	v.SetDefault("sync.pollinterval", 5*time.Second)

	// Speech defaults
	v.SetDefault("azure.speech.voice", "ar-EG-SalmaNeural")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Local store
	v.BindEnv("store.path", "STORE_PATH")

	// Sync bridge
	v.BindEnv("sync.mongouri", "MONGO_URI")
	v.BindEnv("sync.database", "MONGO_DATABASE")
	v.BindEnv("sync.pollinterval", "SYNC_POLL_INTERVAL")

	// Azure OpenAI
	v.BindEnv("azure.openai.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("azure.openai.apikey", "AZURE_OPENAI_API_KEY")
	v.BindEnv("azure.openai.deployment", "AZURE_OPENAI_DEPLOYMENT")

	// Azure Speech
	v.BindEnv("azure.speech.subscriptionkey", "AZURE_SPEECH_KEY")
	v.BindEnv("azure.speech.region", "AZURE_SPEECH_REGION")
	v.BindEnv("azure.speech.voice", "AZURE_SPEECH_VOICE")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid. Azure and sync settings are
// optional; their features degrade to disabled when credentials are missing.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	if c.SyncEnabled() {
		if c.Sync.Database == "" {
			return fmt.Errorf("sync.database is required when sync.mongouri is set")
		}
		if c.Sync.PollInterval <= 0 {
			return fmt.Errorf("sync.pollinterval must be positive")
		}
	}

	if c.Azure.OpenAI.Endpoint != "" || c.Azure.OpenAI.APIKey != "" {
		if !c.AnalysisEnabled() {
			return fmt.Errorf("azure.openai requires endpoint, apikey and deployment together")
		}
	}

	if c.Azure.Speech.SubscriptionKey != "" && c.Azure.Speech.Region == "" {
		return fmt.Errorf("azure.speech.region is required when azure.speech.subscriptionkey is set")
	}

	return nil
}
