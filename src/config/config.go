package config

import (
	"fmt"
	"os"

	"trading-dashboard/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from a YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// Default creates a Config with all recommended values, used when no file
// is given and by tests.
func Default() *Config {
	c := &Config{MConfig: &models.MConfig{
		Name:     "trading-dashboard",
		Host:     "127.0.0.1",
		Port:     8090,
		LogLevel: "INFO",
	}}
	c.applyDefaults()
	return c
}

// -----------------------------------------------------------------------------

// applyDefaults fills every zero-valued tunable with its recommended value.
// The cadence and tolerance numbers are deliberately configuration, not
// literals scattered through the code.
func (c *Config) applyDefaults() {
	sim := &c.Simulator
	if len(sim.Symbols) == 0 {
		sim.Symbols = []string{"SPY", "QQQ", "AAPL", "TSLA", "NVDA"}
	}
	if sim.MarketDataIntervalMs == 0 {
		sim.MarketDataIntervalMs = 1000
	}
	if sim.PositionIntervalMs == 0 {
		sim.PositionIntervalMs = 2000
	}
	if sim.PortfolioIntervalMs == 0 {
		sim.PortfolioIntervalMs = 3000
	}
	if sim.RiskAlertIntervalMs == 0 {
		sim.RiskAlertIntervalMs = 5000
	}
	if sim.RiskAlertProbability == 0 {
		sim.RiskAlertProbability = 0.1
	}
	if sim.SignalIntervalMs == 0 {
		sim.SignalIntervalMs = 4000
	}
	if sim.SignalProbability == 0 {
		sim.SignalProbability = 0.2
	}

	pb := &c.Playback
	if pb.TickMs == 0 {
		pb.TickMs = 100
	}
	if pb.ToleranceMs == 0 {
		pb.ToleranceMs = 30_000
	}
	if len(pb.Speeds) == 0 {
		pb.Speeds = []float64{1, 2, 5, 10}
	}

	gen := &c.Generator
	if gen.Model == "" {
		gen.Model = "gpt-4o-mini"
	}
	if gen.Temperature == 0 {
		gen.Temperature = 0.7
	}
	if gen.MaxTokens == 0 {
		gen.MaxTokens = 2000
	}
	if gen.TimeoutSeconds == 0 {
		gen.TimeoutSeconds = 15
	}
	if gen.MaxRetries == 0 {
		gen.MaxRetries = 2
	}

	cl := &c.Client
	if cl.ReconnectAttempts == 0 {
		cl.ReconnectAttempts = 5
	}
	if cl.ReconnectDelayMs == 0 {
		cl.ReconnectDelayMs = 1000
	}
	if cl.ConnectTimeoutMs == 0 {
		cl.ConnectTimeoutMs = 5000
	}

	st := &c.Storage
	if st.DBType == "" {
		st.DBType = "sqlite"
	}
	if st.DBType == "sqlite" && st.DBPath == "" {
		st.DBPath = "trading-dashboard.db"
	}
	if st.RetentionDays == 0 {
		st.RetentionDays = 7
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Storage configuration
	switch c.Storage.DBType {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unknown database type: %s", c.Storage.DBType)
	}

	// Simulator cadences
	sim := c.Simulator
	for name, iv := range map[string]int{
		"market_data_interval_ms": sim.MarketDataIntervalMs,
		"position_interval_ms":    sim.PositionIntervalMs,
		"portfolio_interval_ms":   sim.PortfolioIntervalMs,
		"risk_alert_interval_ms":  sim.RiskAlertIntervalMs,
		"signal_interval_ms":      sim.SignalIntervalMs,
	} {
		if iv <= 0 {
			return fmt.Errorf("%s must be greater than 0", name)
		}
	}
	if sim.RiskAlertProbability < 0 || sim.RiskAlertProbability > 1 {
		return fmt.Errorf("risk alert probability must be within [0,1], got %f", sim.RiskAlertProbability)
	}
	if sim.SignalProbability < 0 || sim.SignalProbability > 1 {
		return fmt.Errorf("signal probability must be within [0,1], got %f", sim.SignalProbability)
	}
	if len(sim.Symbols) == 0 {
		return fmt.Errorf("at least one tracked symbol must be configured")
	}

	// Playback
	if c.Playback.TickMs <= 0 {
		return fmt.Errorf("playback tick must be greater than 0")
	}
	if c.Playback.ToleranceMs <= 0 {
		return fmt.Errorf("projection tolerance must be greater than 0")
	}
	for i, s := range c.Playback.Speeds {
		if s <= 0 {
			return fmt.Errorf("playback speed %d must be greater than 0", i)
		}
	}

	// Consumer reconnect policy
	if c.Client.ReconnectAttempts < 0 {
		return fmt.Errorf("reconnect attempts cannot be negative")
	}
	if c.Client.ConnectTimeoutMs <= 0 {
		return fmt.Errorf("connect timeout must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
