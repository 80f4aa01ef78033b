package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"price-ticker/src/models"

	"gopkg.in/yaml.v3"
)

// Environment variables that override values loaded from YAML.
const (
	EnvHost         = "TICKER_HOST"
	EnvPort         = "TICKER_PORT"
	EnvGrpcPort     = "TICKER_GRPC_PORT"
	EnvLogLevel     = "TICKER_LOG_LEVEL"
	EnvTickInterval = "TICKER_TICK_INTERVAL_MS"
	EnvSymbols      = "TICKER_SYMBOLS"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// DefaultConfig returns a config usable without any file on disk
func DefaultConfig() *Config {
	return &Config{MConfig: &models.MConfig{
		Name:     "price-ticker",
		Host:     "127.0.0.1",
		Port:     8000,
		LogLevel: "INFO",
		GrpcHost: "127.0.0.1",
		GrpcPort: 50051,
		Symbols:  []string{"BTC", "ETH", "SOL"},
		Engine: models.MEngineConfig{
			TickIntervalMs:   500,
			DefaultBasePrice: 100.0,
			BasePrices:       map[string]float64{},
			MaxDeltaPercent:  0.5,
			MinPrice:         0.01,
			DrainCapacity:    1024,
		},
		Stream: models.MStreamConfig{
			OverflowPolicy: "unbounded",
			BufferSize:     256,
		},
	}}
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config from a YAML file. Keys missing from the file
// keep their DefaultConfig values.
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal on top of the defaults
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config.MConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Servers
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort <= 1024 || c.GrpcPort > 65535 {
		return fmt.Errorf("invalid grpc port number: %d (must be between 1025 and 65535)", c.GrpcPort)
	}
	if c.GrpcPort == c.Port {
		return fmt.Errorf("grpc port and server port must differ (both %d)", c.Port)
	}

	// Symbols
	for i, sym := range c.Symbols {
		if strings.TrimSpace(sym) == "" {
			return fmt.Errorf("symbol %d cannot be empty", i)
		}
	}

	// Engine
	e := c.Engine
	if e.TickIntervalMs <= 0 {
		return fmt.Errorf("tick interval must be greater than 0")
	}
	if e.DefaultBasePrice <= 0 {
		return fmt.Errorf("default base price must be greater than 0")
	}
	for sym, p := range e.BasePrices {
		if p <= 0 {
			return fmt.Errorf("base price for '%s' must be greater than 0", sym)
		}
	}
	if e.MaxDeltaPercent <= 0 || e.MaxDeltaPercent >= 100 {
		return fmt.Errorf("max delta percent must be in (0, 100), got %v", e.MaxDeltaPercent)
	}
	if e.MinPrice <= 0 {
		return fmt.Errorf("min price must be greater than 0")
	}
	if e.DrainCapacity <= 0 {
		return fmt.Errorf("drain capacity must be greater than 0")
	}

	// Stream
	switch c.Stream.OverflowPolicy {
	case "", "unbounded":
	case "drop_newest", "drop_oldest":
		if c.Stream.BufferSize <= 0 {
			return fmt.Errorf("buffer size must be greater than 0 for policy %s", c.Stream.OverflowPolicy)
		}
	default:
		return fmt.Errorf("unknown overflow policy: %s", c.Stream.OverflowPolicy)
	}

	return nil
}

// -----------------------------------------------------------------------------

// ApplyEnvOverrides overwrites fields from TICKER_* environment variables and
// re-validates.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv(EnvHost); v != "" {
		c.Host = v
		c.GrpcHost = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		c.Port = port
	}
	if v := os.Getenv(EnvGrpcPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvGrpcPort, err)
		}
		c.GrpcPort = port
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvTickInterval); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTickInterval, err)
		}
		c.Engine.TickIntervalMs = ms
	}
	if v := os.Getenv(EnvSymbols); v != "" {
		c.Symbols = strings.Split(v, ",")
	}

	return c.Validate()
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
