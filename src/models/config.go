package models

// MConfig Structure
type MConfig struct {
	Name      string           `yaml:"name"`
	Host      string           `yaml:"host"`
	Port      int              `yaml:"port"`
	LogLevel  string           `yaml:"log_level"`
	EventsDir string           `yaml:"events_dir"`
	Storage   MStorageConfig   `yaml:"storage"`
	Simulator MSimulatorConfig `yaml:"simulator"`
	Playback  MPlaybackConfig  `yaml:"playback"`
	Generator MGeneratorConfig `yaml:"generator"`
	Client    MClientConfig    `yaml:"client"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	RetentionDays      int    `yaml:"retention_days"`
}

// MSimulatorConfig holds the cadences of the five live-channel emitters.
// Intervals are milliseconds, probabilities are per-tick.
type MSimulatorConfig struct {
	Symbols              []string `yaml:"symbols"`
	MarketDataIntervalMs int      `yaml:"market_data_interval_ms"`
	PositionIntervalMs   int      `yaml:"position_interval_ms"`
	PortfolioIntervalMs  int      `yaml:"portfolio_interval_ms"`
	RiskAlertIntervalMs  int      `yaml:"risk_alert_interval_ms"`
	RiskAlertProbability float64  `yaml:"risk_alert_probability"`
	SignalIntervalMs     int      `yaml:"signal_interval_ms"`
	SignalProbability    float64  `yaml:"signal_probability"`
}

// MPlaybackConfig holds the playback clock tick, the projection tolerance
// window and the allowed speed multipliers.
type MPlaybackConfig struct {
	TickMs      int       `yaml:"tick_ms"`
	ToleranceMs int64     `yaml:"tolerance_ms"`
	Speeds      []float64 `yaml:"speeds"`
}

// MGeneratorConfig for the external text-generation endpoint.
type MGeneratorConfig struct {
	Endpoint       string  `yaml:"endpoint"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxRetries     int     `yaml:"max_retries"`
}

// MClientConfig for the channel consumer's connect/reconnect policy.
type MClientConfig struct {
	ReconnectAttempts int `yaml:"reconnect_attempts"`
	ReconnectDelayMs  int `yaml:"reconnect_delay_ms"`
	ConnectTimeoutMs  int `yaml:"connect_timeout_ms"`
}
