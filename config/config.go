package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DataDir      string // directory holding the merchant export files
	MappingsPath string // optional YAML schema-mapping override
	GeminiAPIKey string
	GeminiModel  string
	MockSeed     int64 // 0 means time-seeded
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:         get("PORT", "8080"),
		DataDir:      get("DATA_DIR", "."),
		MappingsPath: get("SCHEMA_MAPPINGS_PATH", ""),
		GeminiAPIKey: get("GEMINI_API_KEY", ""),
		GeminiModel:  get("GEMINI_MODEL", "gemini-2.5-pro"),
		MockSeed:     getInt64("MOCK_SEED", 0),
	}
	return cfg
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt64(k string, def int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", k, v, def)
		return def
	}
	return n
}
