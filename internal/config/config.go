package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsontocs/internal/errors"
	"github.com/mcncl/jsontocs/internal/generator"
)

// Default values
const (
	DefaultRootName  = "RootType"
	DefaultIndent    = 4
	DefaultAddr      = ":8080"
	DefaultCacheSize = 128
	DefaultOutputDir = "out"
)

// Line endings accepted by output.line_ending
const (
	LineEndingLF   = "lf"
	LineEndingCRLF = "crlf"
)

// Environment variables read by the server
const (
	EnvAddr      = "JSONTOCS_ADDR"
	EnvCacheSize = "JSONTOCS_CACHE_SIZE"
)

// Config represents the complete configuration for jsontocs
type Config struct {
	RootName          string       `yaml:"root_name"`
	Namespace         string       `yaml:"namespace"`
	DeclareDataMember bool         `yaml:"declare_data_member"`
	ListType          string       `yaml:"list_type"`
	Output            OutputConfig `yaml:"output"`
	Server            ServerConfig `yaml:"server"`
	Dev               DevConfig    `yaml:"dev"`
}

// OutputConfig controls how generated files are written
type OutputConfig struct {
	Directory  string `yaml:"directory"`
	LineEnding string `yaml:"line_ending"`
	Indent     int    `yaml:"indent"`
	FileHeader string `yaml:"file_header"`
}

// ServerConfig controls the HTTP server
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	CacheSize int    `yaml:"cache_size"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		RootName: DefaultRootName,
		ListType: generator.ForwardOnlySequence.Container(),
		Output: OutputConfig{
			LineEnding: LineEndingLF,
			Indent:     DefaultIndent,
		},
		Server: ServerConfig{
			Addr:      DefaultAddr,
			CacheSize: DefaultCacheSize,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks option values that YAML cannot constrain.
func (c *Config) Validate() error {
	if _, err := generator.ParseListKind(c.ListType); err != nil {
		return errors.WithHint(err, "set list_type to IEnumerable or IReadOnlyList")
	}

	switch strings.ToLower(c.Output.LineEnding) {
	case "", LineEndingLF, LineEndingCRLF:
	default:
		return errors.WithHint(
			fmt.Errorf("%w: line ending %q", errors.ErrInvalidOption, c.Output.LineEnding),
			"set output.line_ending to lf or crlf",
		)
	}

	if c.Output.Indent < 0 || c.Output.Indent > 16 {
		return fmt.Errorf("%w: indent %d (want 0-16)", errors.ErrInvalidOption, c.Output.Indent)
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("%w: cache size %d", errors.ErrInvalidOption, c.Server.CacheSize)
	}
	return nil
}

// GeneratorOptions converts the configuration into emitter options.
func (c *Config) GeneratorOptions() (generator.Options, error) {
	kind, err := generator.ParseListKind(c.ListType)
	if err != nil {
		return generator.Options{}, err
	}
	return generator.Options{
		Namespace:         c.Namespace,
		DeclareDataMember: c.DeclareDataMember,
		ListKind:          kind,
	}, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontocs.yml", ".jsontocs.yaml", "jsontocs.yml", "jsontocs.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// CLIOverrides holds values given on the command line. Empty strings and nil
// pointers leave the file value in place.
type CLIOverrides struct {
	RootName          string
	Namespace         string
	ListType          string
	OutputDir         string
	DeclareDataMember *bool
}

// LoadConfigWithCLI loads config with CLI argument precedence: CLI over
// config file over defaults.
func LoadConfigWithCLI(configPath string, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.RootName != "" {
		cfg.RootName = cli.RootName
	}
	if cli.Namespace != "" {
		cfg.Namespace = cli.Namespace
	}
	if cli.ListType != "" {
		cfg.ListType = cli.ListType
	}
	if cli.OutputDir != "" {
		cfg.Output.Directory = cli.OutputDir
	}
	if cli.DeclareDataMember != nil {
		cfg.DeclareDataMember = *cli.DeclareDataMember
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv loads envFiles (missing files are ignored) and applies the server
// environment variables on top of the configuration.
func (c *Config) ApplyEnv(envFiles ...string) error {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	if addr := os.Getenv(EnvAddr); addr != "" {
		c.Server.Addr = addr
	}
	if size := os.Getenv(EnvCacheSize); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s=%q", errors.ErrInvalidOption, EnvCacheSize, size)
		}
		c.Server.CacheSize = n
	}
	return nil
}
