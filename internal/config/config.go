package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kaiyu-cloud/tripdex/internal/domain/selection"
)

// Config holds the tripdex API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Store      StoreConfig      `yaml:"store"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Selection  SelectionConfig  `yaml:"selection"`
	Entities   EntitiesConfig   `yaml:"entities"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// StoreConfig holds document store settings.
type StoreConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	IndexName        string   `yaml:"index_name"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	QueryTimeoutSec  int      `yaml:"query_timeout_sec"`
}

// EmbeddingConfig holds embedding backend settings.
// Backend "lexical" builds frequency vectors from the corpus vocabulary;
// "openai" delegates to an OpenAI-compatible embedding API.
type EmbeddingConfig struct {
	Backend    string `yaml:"backend"` // lexical, openai (default: lexical)
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// GenerationConfig holds the downstream itinerary generator settings.
// Disabled (no API key) leaves the /v1/itinerary route unregistered.
type GenerationConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// SelectionConfig holds the dynamic-K selection tunables.
type SelectionConfig struct {
	BaseK         int     `yaml:"base_k"`
	MaxK          int     `yaml:"max_k"`
	KMin          int     `yaml:"k_min"`
	OverFetch     int     `yaml:"over_fetch"`
	GainThreshold float64 `yaml:"gain_threshold"`
	TokenBudget   int     `yaml:"token_budget"`
	Weights       struct {
		Relevance  float64 `yaml:"relevance"`
		Diversity  float64 `yaml:"diversity"`
		Coverage   float64 `yaml:"coverage"`
		Redundancy float64 `yaml:"redundancy"`
	} `yaml:"weights"`
}

// EntitiesConfig holds the known entity vocabularies the need extractor
// intersects query tokens against.
type EntitiesConfig struct {
	Cities  []string `yaml:"cities"`
	Seasons []string `yaml:"seasons"`
}

// CorpusConfig holds corpus load settings.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Store.ReadinessTimeout <= 0 {
		c.Store.ReadinessTimeout = 10
	}
	if c.Store.QueryTimeoutSec <= 0 {
		c.Store.QueryTimeoutSec = 3
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = "tripdex:"
	}
	if c.Store.IndexName == "" {
		c.Store.IndexName = "tripdex-docs"
	}
	if c.Embedding.Backend == "" {
		c.Embedding.Backend = "lexical"
	}
	if c.Selection.BaseK <= 0 {
		c.Selection.BaseK = selection.DefaultBaseK
	}
	if c.Selection.MaxK <= 0 {
		c.Selection.MaxK = selection.DefaultMaxK
	}
	if c.Selection.KMin <= 0 {
		c.Selection.KMin = selection.DefaultKMin
	}
	if c.Selection.OverFetch <= 0 {
		c.Selection.OverFetch = selection.DefaultOverFetch
	}
	if c.Selection.GainThreshold <= 0 {
		c.Selection.GainThreshold = selection.DefaultGainThreshold
	}
	if c.Selection.TokenBudget <= 0 {
		c.Selection.TokenBudget = selection.DefaultTokenBudget
	}
	if c.Selection.Weights.Relevance <= 0 {
		c.Selection.Weights.Relevance = selection.DefaultRelevanceWeight
	}
	if c.Selection.Weights.Diversity <= 0 {
		c.Selection.Weights.Diversity = selection.DefaultDiversityWeight
	}
	if c.Selection.Weights.Coverage <= 0 {
		c.Selection.Weights.Coverage = selection.DefaultCoverageWeight
	}
	if c.Selection.Weights.Redundancy <= 0 {
		c.Selection.Weights.Redundancy = selection.DefaultRedundancyWeight
	}
	if len(c.Entities.Cities) == 0 {
		c.Entities.Cities = defaultCityWords
	}
	if len(c.Entities.Seasons) == 0 {
		c.Entities.Seasons = defaultSeasonWords
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gpt-4.1-mini"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Store.Driver {
	case "memory":
	case "redis":
		if len(c.Store.Addrs) == 0 {
			return fmt.Errorf("store.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("store.driver must be \"memory\" or \"redis\", got %q", c.Store.Driver)
	}
	switch c.Embedding.Backend {
	case "lexical":
	case "openai":
		if c.Embedding.Model == "" {
			return fmt.Errorf("embedding.model is required for the openai backend")
		}
	default:
		return fmt.Errorf("embedding.backend must be \"lexical\" or \"openai\", got %q", c.Embedding.Backend)
	}
	return c.SelectionOptions().Validate()
}

// SelectionOptions converts the selection section into engine options.
func (c *Config) SelectionOptions() selection.Options {
	return selection.Options{
		BaseK:            c.Selection.BaseK,
		MaxK:             c.Selection.MaxK,
		KMin:             c.Selection.KMin,
		OverFetch:        c.Selection.OverFetch,
		GainThreshold:    c.Selection.GainThreshold,
		TokenBudget:      c.Selection.TokenBudget,
		RelevanceWeight:  c.Selection.Weights.Relevance,
		DiversityWeight:  c.Selection.Weights.Diversity,
		CoverageWeight:   c.Selection.Weights.Coverage,
		RedundancyWeight: c.Selection.Weights.Redundancy,
	}
}

// Default entity vocabularies for the Japan travel corpus.
var (
	defaultCityWords = []string{
		"tokyo", "osaka", "kyoto", "sapporo", "niseko", "hakodate", "sendai", "nagoya",
	}
	defaultSeasonWords = []string{
		"spring", "summer", "autumn", "fall", "winter",
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}
)

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
