// Package config resolves tool locations and runtime settings. Values are
// layered: built-in defaults, then quickpress.yml, then .env, then the
// process environment.
package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	FileName    = "quickpress.yml"
	EnvFileName = ".env"
	toolsDir    = "bin"
)

type Config struct {
	FFmpegPath   string `yaml:"ffmpeg_path"`
	FFprobePath  string `yaml:"ffprobe_path"`
	LogFile      string `yaml:"log_file"`
	LogLevel     string `yaml:"log_level"`
	Console      bool   `yaml:"console"`
	RedisURL     string `yaml:"redis_url"`
	HistoryKey   string `yaml:"history_key"`
	HistoryLimit int64  `yaml:"history_limit"`
}

// DefaultConfig expects ffmpeg and ffprobe in a bin directory beside the
// executable.
func DefaultConfig(baseDir string) Config {
	return Config{
		FFmpegPath:   filepath.Join(baseDir, toolsDir, executable("ffmpeg")),
		FFprobePath:  filepath.Join(baseDir, toolsDir, executable("ffprobe")),
		LogFile:      DefaultLogPath(),
		LogLevel:     "info",
		HistoryKey:   "quickpress:jobs",
		HistoryLimit: 100,
	}
}

func executable(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// DefaultLogPath is a per-user log file in the temp directory.
func DefaultLogPath() string {
	name := "quickpress.log"
	if u, err := user.Current(); err == nil && u.Username != "" {
		// Windows usernames come back as DOMAIN\user.
		username := u.Username
		if i := strings.LastIndexAny(username, `\/`); i >= 0 {
			username = username[i+1:]
		}
		name = "quickpress-" + username + ".log"
	}
	return filepath.Join(os.TempDir(), name)
}

// Load builds the configuration for an executable living in baseDir.
func Load(baseDir string) (*Config, error) {
	cfg := DefaultConfig(baseDir)

	data, err := os.ReadFile(filepath.Join(baseDir, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", FileName, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", FileName, err)
	}

	envFile := filepath.Join(baseDir, EnvFileName)
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", EnvFileName, err)
		}
	}

	cfg.applyEnv()
	cfg.FFmpegPath = resolve(baseDir, cfg.FFmpegPath)
	cfg.FFprobePath = resolve(baseDir, cfg.FFprobePath)
	if cfg.LogFile != "" {
		cfg.LogFile = resolve(baseDir, cfg.LogFile)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"QUICKPRESS_FFMPEG":      &c.FFmpegPath,
		"QUICKPRESS_FFPROBE":     &c.FFprobePath,
		"QUICKPRESS_LOG_FILE":    &c.LogFile,
		"QUICKPRESS_LOG_LEVEL":   &c.LogLevel,
		"QUICKPRESS_REDIS_URL":   &c.RedisURL,
		"QUICKPRESS_HISTORY_KEY": &c.HistoryKey,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok {
			*field = v
		}
	}
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func (c *Config) Validate() error {
	if c.FFmpegPath == "" {
		return errors.New("ffmpeg path must not be empty")
	}
	if c.FFprobePath == "" {
		return errors.New("ffprobe path must not be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.HistoryLimit < 0 {
		return errors.New("history limit must not be negative")
	}
	return nil
}
