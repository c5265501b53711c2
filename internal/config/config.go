package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Worker  WorkerConfig
	Cobli   CobliConfig
	DB      DatabaseConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

// CobliConfig drives the risk-events ingestion. The API key is always
// supplied externally, never embedded in code.
type CobliConfig struct {
	URL          string
	APIKey       string
	StartDate    string // YYYY-MM-DD
	EndDate      string // YYYY-MM-DD
	Timezone     string
	PageSize     int
	Timeout      time.Duration
	PollEnabled  bool
	PollInterval time.Duration
	IngestAll    bool
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		Cobli: CobliConfig{
			URL:          getEnv("COBLI_URL", "https://api.cobli.co/public/v1/risk-events/"),
			APIKey:       getEnv("COBLI_API_KEY", ""),
			StartDate:    getEnv("COBLI_START_DATE", "2023-05-01"),
			EndDate:      getEnv("COBLI_END_DATE", "2023-10-01"),
			Timezone:     getEnv("COBLI_TIMEZONE", "America/Sao_Paulo"),
			PageSize:     getEnvInt("COBLI_PAGE_SIZE", 1000),
			Timeout:      getEnvDuration("COBLI_TIMEOUT", 15*time.Second),
			PollEnabled:  getEnvBool("COBLI_POLL_ENABLED", false),
			PollInterval: getEnvDuration("COBLI_POLL_INTERVAL", 10*time.Minute),
			IngestAll:    getEnvBool("COBLI_INGEST_ALL", false),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/crises.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Cobli.PageSize < 1 {
		return fmt.Errorf("cobli page size must be at least 1: %d", c.Cobli.PageSize)
	}
	if c.Cobli.PollInterval < time.Minute {
		return fmt.Errorf("cobli poll interval must be at least 1 minute")
	}
	for _, d := range []string{c.Cobli.StartDate, c.Cobli.EndDate} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("invalid cobli window date %q: %w", d, err)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
