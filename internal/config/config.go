// Package config loads application settings from a YAML file, the
// environment and an optional .env file, in that order of precedence
// (environment wins over the file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration.
type Config struct {
	Server    Server    `yaml:"server"`
	Log       Log       `yaml:"log"`
	Session   Session   `yaml:"session"`
	Fetcher   Fetcher   `yaml:"fetcher"`
	RateLimit RateLimit `yaml:"ratelimit"`
	Messages  Messages  `yaml:"messages"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr           string        `yaml:"addr" env:"HTTP_ADDR" env-default:":3000" validate:"required"`
	AppName        string        `yaml:"appName" env:"APP_NAME"`
	StaticDir      string        `yaml:"staticDir" env:"STATIC_DIR" env-default:"./static"`
	RequestTimeout time.Duration `yaml:"requestTimeout" env:"REQUEST_TIMEOUT" env-default:"30s" validate:"min=1s"`
	MetricsPath    string        `yaml:"metricsPath" env:"METRICS_PATH" env-default:"/metrics" validate:"required,startswith=/"`
}

// Log configures pkg/log.
type Log struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	Format     string `yaml:"format" env:"LOG_FORMAT" env-default:"json" validate:"oneof=json text"`
	FilePath   string `yaml:"filePath" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"maxSizeMB" env:"LOG_MAX_SIZE_MB" env-default:"50" validate:"min=1"`
	MaxBackups int    `yaml:"maxBackups" env:"LOG_MAX_BACKUPS" env-default:"3" validate:"min=0"`
	MaxAgeDays int    `yaml:"maxAgeDays" env:"LOG_MAX_AGE_DAYS" env-default:"14" validate:"min=0"`
}

// Session configures per-visitor resolver state.
type Session struct {
	TTL         time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"2h" validate:"min=1m"`
	CookieName  string        `yaml:"cookieName" env:"SESSION_COOKIE" env-default:"xhs_session" validate:"required"`
	HistorySize int           `yaml:"historySize" env:"HISTORY_SIZE" env-default:"10" validate:"min=1,max=100"`
}

// Fetcher configures how images are retrieved for download.
type Fetcher struct {
	Mode       string        `yaml:"mode" env:"FETCHER_MODE" env-default:"http" validate:"oneof=http browser"`
	Timeout    time.Duration `yaml:"timeout" env:"FETCHER_TIMEOUT" env-default:"20s" validate:"min=1s"`
	MaxBytes   int64         `yaml:"maxBytes" env:"FETCHER_MAX_BYTES" env-default:"26214400" validate:"min=1024"`
	UserAgent  string        `yaml:"userAgent" env:"FETCHER_USER_AGENT" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
	Referer    string        `yaml:"referer" env:"FETCHER_REFERER" env-default:"https://www.xiaohongshu.com/" validate:"omitempty,url"`
	ChromePath string        `yaml:"chromePath" env:"CHROME_PATH"`
	ChromeURL  string        `yaml:"chromeURL" env:"CHROME_REMOTE_URL" validate:"omitempty,url"`
	MaxTabs    int           `yaml:"maxTabs" env:"FETCHER_MAX_TABS" env-default:"1" validate:"min=1,max=8"`
}

// RateLimit bounds direct downloads per client IP.
type RateLimit struct {
	Downloads int           `yaml:"downloads" env:"RATE_LIMIT_DOWNLOADS" env-default:"30" validate:"min=1"`
	Window    time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"1m" validate:"min=1s"`
}

// Messages configures the UI message catalog.
type Messages struct {
	Path           string        `yaml:"path" env:"MESSAGES_PATH" env-default:"config/messages.yaml" validate:"required"`
	ReloadInterval time.Duration `yaml:"reloadInterval" env:"MESSAGES_RELOAD_INTERVAL" env-default:"10s"`
}

// Load reads .env (when present), then the YAML file at path (when
// present), then the environment, and validates the result.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read .env: %w", err)
	}

	var cfg Config
	if path != "" && fileExists(path) {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
