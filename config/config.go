package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type AssistantConfig struct {
	Provider              string `toml:"provider"`
	BaseURL               string `toml:"base_url"`
	Model                 string `toml:"model"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	Greeting              string `toml:"greeting,omitempty"`
	SystemPrompt          string `toml:"system_prompt,omitempty"`
}

type UserConfig struct {
	Assistant AssistantConfig `toml:"assistant"`
}

type Config struct {
	DataDirectory  string
	Provider       string
	BaseURL        string
	Model          string
	APIKey         string // env only, never written to disk
	RequestTimeout time.Duration
	Greeting       string
	SystemPrompt   string
}

const (
	EnvProvider = "PRICEPILOT_PROVIDER"
	EnvBaseURL  = "PRICEPILOT_BASE_URL"
	EnvModel    = "PRICEPILOT_MODEL"
	EnvDataDir  = "PRICEPILOT_DATA_DIR"
	EnvAPIKey   = "PRICEPILOT_API_KEY"
	EnvTimeout  = "PRICEPILOT_REQUEST_TIMEOUT"
	EnvDebug    = "PRICEPILOT_DEBUG"

	// EnvFileName is an optional dotenv file in the data directory, the
	// usual home for PRICEPILOT_API_KEY.
	EnvFileName = ".env"
)

var Debug = false
var DebugLog *logrus.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyUserConfig(userCfg *UserConfig) {
	a := userCfg.Assistant
	if a.Provider != "" {
		c.Provider = a.Provider
	}
	if a.BaseURL != "" {
		c.BaseURL = a.BaseURL
	}
	if a.Model != "" {
		c.Model = a.Model
	}
	// 0 disables the deadline; an omitted key keeps the default.
	if a.RequestTimeoutSeconds >= 0 {
		c.RequestTimeout = time.Duration(a.RequestTimeoutSeconds) * time.Second
	}
	if a.Greeting != "" {
		c.Greeting = a.Greeting
	}
	if a.SystemPrompt != "" {
		c.SystemPrompt = a.SystemPrompt
	}
}

func (c *Config) applyEnvOverrides() {
	if p := os.Getenv(EnvProvider); p != "" {
		c.Provider = p
	}
	if u := os.Getenv(EnvBaseURL); u != "" {
		c.BaseURL = u
	}
	if m := os.Getenv(EnvModel); m != "" {
		c.Model = m
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.APIKey = key
	}
	if t := os.Getenv(EnvTimeout); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs >= 0 {
			c.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
}

func CheckDebug() bool {
	debug := os.Getenv(EnvDebug)
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: the log may contain parts of the conversation
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	logger := logrus.New()
	logger.Out = f
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})

	Debug = true
	DebugLog = logger
	DebugLog.Printf("=== Debug logging started (%s=%s) ===", EnvDebug, os.Getenv(EnvDebug))
	DebugLog.Printf("Log path: %s", logPath)
}

func Load() (*Config, error) {
	def := DefaultUserConfig().Assistant
	cfg := &Config{
		DataDirectory:  DefaultSystemConfig().DataDirectory,
		Provider:       def.Provider,
		BaseURL:        def.BaseURL,
		Model:          def.Model,
		RequestTimeout: time.Duration(def.RequestTimeoutSeconds) * time.Second,
	}

	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		cfg.DataDirectory = dataDir
	} else {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)

	if err := loadEnvFile(dataDir); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	return cfg, nil
}

// loadEnvFile reads <data_dir>/.env into the process environment. Variables
// already set in the environment win over the file.
func loadEnvFile(dataDir string) error {
	envPath := filepath.Join(dataDir, EnvFileName)
	if !FileExists(envPath) {
		return nil
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("failed to load %s: %w", envPath, err)
	}
	return nil
}
