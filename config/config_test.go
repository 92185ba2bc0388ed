package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{EnvProvider, EnvBaseURL, EnvModel, EnvDataDir, EnvAPIKey, EnvTimeout, EnvDebug} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoadCreatesDefaults(t *testing.T) {
	home := setupHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantDataDir := filepath.Join(home, ".local", "share", "pricepilot")
	if got := cfg.DataDir(); got != wantDataDir {
		t.Errorf("DataDir() = %s, want %s", got, wantDataDir)
	}
	if cfg.Provider != "assistant" {
		t.Errorf("Provider = %q, want assistant", cfg.Provider)
	}
	if cfg.RequestTimeout != 120*time.Second {
		t.Errorf("RequestTimeout = %v, want 120s", cfg.RequestTimeout)
	}
	if !FileExists(GetSettingsFilePath()) {
		t.Error("settings.toml was not created")
	}
	if !FileExists(GetUserConfigFilePath(wantDataDir)) {
		t.Error("config.toml was not created")
	}

	info, err := os.Stat(wantDataDir)
	if err != nil {
		t.Fatalf("stat data dir: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Errorf("data dir perms = %o, want 0700", perm)
	}
}

func TestLoadUserConfigAndEnvOverrides(t *testing.T) {
	home := setupHome(t)
	dataDir := filepath.Join(home, "data")
	t.Setenv(EnvDataDir, dataDir)

	userCfg := &UserConfig{Assistant: AssistantConfig{
		Provider:              "openai",
		BaseURL:               "https://example.test/v1",
		Model:                 "gpt-4o-mini",
		RequestTimeoutSeconds: 30,
		Greeting:              "Hello there",
	}}
	if err := SaveUserConfig(userCfg, dataDir); err != nil {
		t.Fatalf("SaveUserConfig() error = %v", err)
	}

	t.Setenv(EnvModel, "gpt-4.1")
	t.Setenv(EnvAPIKey, "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"provider", cfg.Provider, "openai"},
		{"base url", cfg.BaseURL, "https://example.test/v1"},
		{"model from env", cfg.Model, "gpt-4.1"},
		{"api key from env", cfg.APIKey, "sk-test"},
		{"greeting", cfg.Greeting, "Hello there"},
		{"data dir", cfg.DataDir(), dataDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}

	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
}

func TestExpandPath(t *testing.T) {
	home := setupHome(t)

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~/pricepilot", filepath.Join(home, "pricepilot")},
		{"/tmp/../tmp/x", "/tmp/x"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	home := setupHome(t)
	dataDir := filepath.Join(home, "data")
	t.Setenv(EnvDataDir, dataDir)

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	envFile := "PRICEPILOT_API_KEY=sk-from-file\nPRICEPILOT_MODEL=from-file\n"
	if err := os.WriteFile(filepath.Join(dataDir, EnvFileName), []byte(envFile), 0600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	// The file only fills variables that are not already set.
	os.Unsetenv(EnvAPIKey)
	t.Setenv(EnvModel, "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIKey != "sk-from-file" {
		t.Errorf("APIKey = %q, want sk-from-file", cfg.APIKey)
	}
	if cfg.Model != "from-env" {
		t.Errorf("Model = %q, want from-env", cfg.Model)
	}
}

func TestLoadRequestTimeout(t *testing.T) {
	tests := []struct {
		name       string
		configLine string
		env        string
		want       time.Duration
	}{
		{name: "key omitted keeps default", want: 120 * time.Second},
		{name: "zero in file disables", configLine: "request_timeout_seconds = 0", want: 0},
		{name: "value in file", configLine: "request_timeout_seconds = 45", want: 45 * time.Second},
		{name: "zero in env disables", configLine: "request_timeout_seconds = 45", env: "0", want: 0},
		{name: "negative env ignored", configLine: "request_timeout_seconds = 45", env: "-5", want: 45 * time.Second},
		{name: "garbage env ignored", env: "soon", want: 120 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := setupHome(t)
			dataDir := filepath.Join(home, "data")
			t.Setenv(EnvDataDir, dataDir)
			t.Setenv(EnvTimeout, tt.env)

			if err := os.MkdirAll(dataDir, 0700); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			body := "[assistant]\nprovider = \"assistant\"\n" + tt.configLine + "\n"
			if err := os.WriteFile(GetUserConfigFilePath(dataDir), []byte(body), 0600); err != nil {
				t.Fatalf("write config: %v", err)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.RequestTimeout != tt.want {
				t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, tt.want)
			}
		})
	}
}
