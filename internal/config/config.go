package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	SerpAPI   SerpAPIConfig   `mapstructure:"serpapi"`
	Search    SearchConfig    `mapstructure:"search"`
	Contact   ContactConfig   `mapstructure:"contact"`
	Reports   ReportsConfig   `mapstructure:"reports"`
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
	Driver      string `mapstructure:"driver"` // sqlite, postgres
	Path        string `mapstructure:"path"`   // sqlite file path
	DSN         string `mapstructure:"dsn"`    // postgres connection string
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type KnowledgeConfig struct {
	Dir       string `mapstructure:"dir"`
	Dimension int    `mapstructure:"dimension"`
}

type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	EmbedModel  string  `mapstructure:"embed_model"`
	Temperature float64 `mapstructure:"temperature"`
}

type SerpAPIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	NumResults int    `mapstructure:"num_results"`
	Country    string `mapstructure:"country"`
	Language   string `mapstructure:"language"`
}

type SearchConfig struct {
	LocalK        int     `mapstructure:"local_k"`
	GoogleK       int     `mapstructure:"google_k"`
	MinSimilarity float64 `mapstructure:"min_similarity"`
	TopN          int     `mapstructure:"top_n"`
}

type ContactConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	DelaySeconds int  `mapstructure:"delay_seconds"`
}

type ReportsConfig struct {
	Storage string   `mapstructure:"storage"` // local, s3
	Dir     string   `mapstructure:"dir"`
	S3      S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

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

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/leads.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("knowledge.dir", "./data/knowledge")
	v.SetDefault("knowledge.dimension", 768)
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.embed_model", "gemini-embedding-001")
	v.SetDefault("gemini.temperature", 0.3)
	v.SetDefault("serpapi.num_results", 10)
	v.SetDefault("serpapi.country", "us")
	v.SetDefault("serpapi.language", "en")
	v.SetDefault("search.local_k", 5)
	v.SetDefault("search.google_k", 3)
	v.SetDefault("search.min_similarity", 0.5)
	v.SetDefault("search.top_n", 3)
	v.SetDefault("contact.enabled", true)
	v.SetDefault("contact.delay_seconds", 1)
	v.SetDefault("reports.storage", "local")
	v.SetDefault("reports.dir", "./data/reports")
	v.SetDefault("reports.s3.region", "us-east-1")
	v.SetDefault("reports.s3.use_ssl", true)
	v.SetDefault("reports.s3.bucket", "supplier-reports")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("gemini.base_url", "GEMINI_BASE_URL")
	v.BindEnv("gemini.model", "GEMINI_MODEL")
	v.BindEnv("gemini.embed_model", "GEMINI_EMBED_MODEL")
	v.BindEnv("serpapi.api_key", "SERPAPI_KEY")
	v.BindEnv("database.dsn", "DATABASE_DSN")
	v.BindEnv("reports.s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("reports.s3.access_key", "S3_ACCESS_KEY")
	v.BindEnv("reports.s3.secret_key", "S3_SECRET_KEY")
	v.BindEnv("reports.s3.bucket", "S3_BUCKET")
	v.BindEnv("search.min_similarity", "SEARCH_MIN_SIMILARITY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Search.LocalK < 0 || c.Search.GoogleK < 0 {
		return fmt.Errorf("search result counts must be non-negative")
	}
	if c.Search.MinSimilarity < 0 || c.Search.MinSimilarity > 1 {
		return fmt.Errorf("search.min_similarity must be in [0, 1]")
	}
	if c.Knowledge.Dimension <= 0 {
		return fmt.Errorf("knowledge.dimension must be positive")
	}
	return nil
}
