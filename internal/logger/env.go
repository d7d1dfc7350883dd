package logger

import (
	"os"
	"strconv"
)

// NewFromEnv creates a Logger from LOG_* environment variables, applying any
// non-zero overrides on top. This is the recommended constructor in main().
func NewFromEnv(override *Config) *Logger {
	cfg := loadEnvConfig()
	if override != nil {
		if override.Level != "" {
			cfg.Level = override.Level
		}
		if override.Format != "" {
			cfg.Format = override.Format
		}
		if override.ServiceName != "" {
			cfg.ServiceName = override.ServiceName
		}
		if override.Output != nil {
			cfg.Output = override.Output
		}
		if override.File != "" {
			cfg.File = override.File
		}
	}
	return New(cfg)
}

func loadEnvConfig() *Config {
	cfg := DefaultConfig()
	cfg.Level = getEnv("LOG_LEVEL", cfg.Level)
	cfg.Format = getEnv("LOG_FORMAT", cfg.Format)
	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.File = getEnv("LOG_FILE", "")
	cfg.FileOnly = getEnvBool("LOG_FILE_ONLY", false)
	cfg.MaxSizeMB = getEnvInt("LOG_MAX_SIZE", cfg.MaxSizeMB)
	cfg.MaxBackups = getEnvInt("LOG_MAX_BACKUPS", cfg.MaxBackups)
	cfg.MaxAgeDays = getEnvInt("LOG_MAX_AGE", cfg.MaxAgeDays)
	cfg.Compress = getEnvBool("LOG_COMPRESS", cfg.Compress)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
