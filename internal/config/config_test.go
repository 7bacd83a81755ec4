package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "AI_PROVIDER", "AI_MODEL", "OPENAI_MODEL",
		"AI_BASE_URL", "GEMINI_API_KEY", "OPENAI_API_KEY", "AI_TIMEOUT", "AI_CONCURRENT_LIMIT",
		"STORE_DRIVER", "DATABASE_URL", "REDIS_URL", "REDIS_PASSWORD", "SESSION_TTL", "DEFAULT_MODE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.AI.Provider != ProviderGemini || cfg.AI.Model != "gemini-2.5-flash" {
		t.Fatalf("ai = %+v", cfg.AI)
	}
	if cfg.AI.APIKey != "" {
		t.Fatalf("expected no api key, got %q", cfg.AI.APIKey)
	}
	if cfg.AI.Timeout != 60*time.Second {
		t.Fatalf("timeout = %v", cfg.AI.Timeout)
	}
	if cfg.Store.Driver != DriverMemory || cfg.Store.TTL != 24*time.Hour {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if cfg.Session.DefaultMode != "reactive" {
		t.Fatalf("mode = %q", cfg.Session.DefaultMode)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: "9000"
ai:
  provider: openai
  timeout: 5s
store:
  driver: redis
  redis_url: localhost:6379
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "AIza-ignored")
	t.Setenv("PORT", "9100")

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9100" {
		t.Fatalf("env should override file port, got %q", cfg.Server.Port)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Fatalf("api key = %q", cfg.AI.APIKey)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q", cfg.AI.Model)
	}
	if cfg.AI.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.AI.Timeout)
	}
	if !cfg.Runtime.Dev {
		t.Fatal("dev flag not carried")
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"unknown provider", map[string]string{"AI_PROVIDER": "llama"}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"postgres without url", map[string]string{"STORE_DRIVER": "postgres"}},
		{"redis without url", map[string]string{"STORE_DRIVER": "redis"}},
		{"bad timeout", map[string]string{"AI_TIMEOUT": "soon"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load("", false); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestProviderSpecificModelEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg, err := Load("", false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Model != "gemini-2.5-flash" {
		t.Fatalf("OPENAI_MODEL leaked into gemini config: %q", cfg.AI.Model)
	}

	t.Setenv("AI_PROVIDER", "openai")
	cfg, err = Load("", false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Fatalf("model = %q", cfg.AI.Model)
	}

	t.Setenv("AI_MODEL", "gpt-4.1")
	cfg, err = Load("", false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Model != "gpt-4.1" {
		t.Fatalf("AI_MODEL should win, got %q", cfg.AI.Model)
	}
}
