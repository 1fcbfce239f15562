package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATA_DIR", "SCHEMA_MAPPINGS_PATH", "GEMINI_API_KEY", "GEMINI_MODEL", "MOCK_SEED"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DataDir != "." {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.MockSeed != 0 {
		t.Errorf("MockSeed = %d", cfg.MockSeed)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MOCK_SEED", "42")
	cfg := Load()
	if cfg.Port != "9999" || cfg.MockSeed != 42 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadBadSeedFallsBack(t *testing.T) {
	t.Setenv("MOCK_SEED", "not a number")
	if cfg := Load(); cfg.MockSeed != 0 {
		t.Errorf("MockSeed = %d, want default 0", cfg.MockSeed)
	}
}
