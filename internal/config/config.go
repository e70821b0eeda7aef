package config

import (
	"encoding/json"
	"fmt"
	"os"

	"docgen/domain/core"
	"docgen/domain/mapping"

	"github.com/joho/godotenv"
)

// Config holds the pipeline's runtime settings. The synonym dictionary is
// loaded here and passed into the mapper as an immutable value, never held
// as package-level state.
type Config struct {
	OutputDir      string // directory for batch artifacts
	DictionaryFile string // optional JSON synonym dictionary override
	LogLevel       string
}

// Load reads configuration from the environment, honoring a .env file when
// one is present.
func Load() Config {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := Config{
		OutputDir:      os.Getenv("DOCGEN_OUTPUT_DIR"),
		DictionaryFile: os.Getenv("DOCGEN_DICTIONARY_FILE"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "out"
	}
	return cfg
}

// Dictionary returns the synonym dictionary to map with: the JSON file from
// DOCGEN_DICTIONARY_FILE when configured, the built-in bilingual table
// otherwise. A file with overlapping alias sets fails here, at load time.
func (c Config) Dictionary() (*mapping.SynonymDictionary, error) {
	if c.DictionaryFile == "" {
		return mapping.DefaultDictionary(), nil
	}

	data, err := os.ReadFile(c.DictionaryFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrInvalidDictionary, c.DictionaryFile, err)
	}
	var entries map[string][]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrInvalidDictionary, c.DictionaryFile, err)
	}
	return mapping.NewSynonymDictionary(entries)
}
