package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the candisearch configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Index      IndexConfig      `yaml:"index"`
	Oracle     OracleConfig     `yaml:"oracle"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Synthesis  SynthesisConfig  `yaml:"synthesis"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
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

// DatabaseConfig holds the relational candidate store settings.
type DatabaseConfig struct {
	Driver       string `yaml:"driver"` // sqlite (default)
	DSN          string `yaml:"dsn"`
	Table        string `yaml:"table"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// IndexConfig holds the resume search index settings.
type IndexConfig struct {
	Driver           string   `yaml:"driver"` // redis (default)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	Name             string   `yaml:"name"`
	KeyPrefix        string   `yaml:"key_prefix"`
	IDField          string   `yaml:"id_field"`
	ContentField     string   `yaml:"content_field"`
	VectorField      string   `yaml:"vector_field"`
	Mode             string   `yaml:"mode"` // vector (default) or text
	DefaultTopK      int      `yaml:"default_top_k"`
}

// VectorMode reports whether resume search embeds the query for KNN.
func (c IndexConfig) VectorMode() bool { return c.Mode == "vector" }

// OracleConfig holds the text-generation provider settings.
type OracleConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// EmbeddingConfig holds the embedding provider settings.
// Empty api_key and base_url inherit the oracle's.
type EmbeddingConfig struct {
	Provider         string `yaml:"provider"`
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
	Cache            bool   `yaml:"cache"`
	CacheTTLHours    int    `yaml:"cache_ttl_hours"` // 0 = keep forever
}

// SynthesisConfig bounds the answer-synthesis prompt.
type SynthesisConfig struct {
	MaxContextTokens int    `yaml:"max_context_tokens"`
	Encoding         string `yaml:"encoding"` // tiktoken encoding name
}

// EvaluationConfig holds candidate ranking settings.
type EvaluationConfig struct {
	Workers             int    `yaml:"workers"`
	DefaultRequirements string `yaml:"default_requirements"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
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
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Table == "" {
		c.Database.Table = "candidates"
	}

	if c.Index.Driver == "" {
		c.Index.Driver = "redis"
	}
	if c.Index.ReadinessTimeout <= 0 {
		c.Index.ReadinessTimeout = 10
	}
	if c.Index.Name == "" {
		c.Index.Name = "idx:resumes"
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "candisearch:"
	}
	if c.Index.IDField == "" {
		c.Index.IDField = "candidate_id"
	}
	if c.Index.ContentField == "" {
		c.Index.ContentField = "content"
	}
	if c.Index.VectorField == "" {
		c.Index.VectorField = "embedding"
	}
	if c.Index.Mode == "" {
		c.Index.Mode = "vector"
	}
	if c.Index.DefaultTopK <= 0 {
		c.Index.DefaultTopK = 5
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = c.Oracle.APIKey
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = c.Oracle.BaseURL
	}

	if c.Synthesis.MaxContextTokens <= 0 {
		c.Synthesis.MaxContextTokens = 6000
	}
	if c.Synthesis.Encoding == "" {
		c.Synthesis.Encoding = "cl100k_base"
	}

	if c.Evaluation.Workers <= 0 {
		c.Evaluation.Workers = 4
	}
	if c.Evaluation.DefaultRequirements == "" {
		c.Evaluation.DefaultRequirements = "General software engineering role."
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("database.driver must be \"sqlite\", got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if !identRegex.MatchString(c.Database.Table) {
		return fmt.Errorf("database.table must be a plain identifier, got %q", c.Database.Table)
	}
	if c.Index.Driver != "redis" {
		return fmt.Errorf("index.driver must be \"redis\", got %q", c.Index.Driver)
	}
	if len(c.Index.Addrs) == 0 {
		return fmt.Errorf("index.addrs is required")
	}
	switch c.Index.Mode {
	case "vector", "text":
	default:
		return fmt.Errorf("index.mode must be \"vector\" or \"text\", got %q", c.Index.Mode)
	}
	if c.Oracle.Model == "" {
		return fmt.Errorf("oracle.model is required")
	}
	if c.Index.VectorMode() && c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required when index.mode is \"vector\"")
	}
	if c.Embedding.CacheTTLHours < 0 {
		return fmt.Errorf("embedding.cache_ttl_hours must not be negative, got %d", c.Embedding.CacheTTLHours)
	}
	return nil
}

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

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
