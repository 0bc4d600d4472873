package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Coordinator CoordinatorConfig `mapstructure:"coordinator"`
	Hubs        HubsConfig        `mapstructure:"hubs"`
	Ledger      LedgerConfig      `mapstructure:"ledger"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Etcd        EtcdConfig        `mapstructure:"etcd"`
	Discovery   DiscoveryConfig   `mapstructure:"discovery"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// CoordinatorConfig holds the economic parameters and background task cadences
type CoordinatorConfig struct {
	MinStakeAmount   float64 `mapstructure:"min_stake_amount"`   // minimum stake to register
	BaseRewardRate   float64 `mapstructure:"base_reward_rate"`   // reward units per hour before multipliers
	NetworkFee       float64 `mapstructure:"network_fee"`        // fraction withheld from each payout
	UptimeThreshold  float64 `mapstructure:"uptime_threshold"`   // minimum uptime for reward eligibility
	SlashPercentage  float64 `mapstructure:"slash_percentage"`   // fraction of stake removed per slash
	OfflineThreshold time.Duration `mapstructure:"offline_threshold"` // heartbeat lapse before a node goes offline

	HeartbeatInterval   time.Duration `mapstructure:"heartbeat_interval"`
	RewardInterval      time.Duration `mapstructure:"reward_interval"`
	PerformanceInterval time.Duration `mapstructure:"performance_interval"`
	MetricsInterval     time.Duration `mapstructure:"metrics_interval"`

	// Router knobs
	DirectRouteKm float64 `mapstructure:"direct_route_km"` // cutoff beyond which relays go via a regional hub
	BaseLatencyMs float64 `mapstructure:"base_latency_ms"`
	PerHopLatencyMs float64 `mapstructure:"per_hop_latency_ms"`
}

// HubsConfig represents city hub catalog configuration
type HubsConfig struct {
	CatalogPath string `mapstructure:"catalog_path"` // optional YAML catalog; empty uses the built-in seed
}

// LedgerConfig represents the staking/reward ledger adapter configuration
type LedgerConfig struct {
	Type          string        `mapstructure:"type"`           // nats (default), memory
	URL           string        `mapstructure:"url"`            // ledger service URL (e.g., nats://localhost:4222)
	SubjectPrefix string        `mapstructure:"subject_prefix"` // request subject prefix (default: "ledger")
	Timeout       time.Duration `mapstructure:"timeout"`        // per-call request timeout
}

// QueueConfig represents the lifecycle event queue configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "relaymesh")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "relaymesh-group")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// EtcdConfig represents etcd configuration
type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
}

// DiscoveryConfig controls coordinator self-registration in etcd
type DiscoveryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	AdvertiseURL string `mapstructure:"advertise_url"` // externally reachable HTTP base URL
	LeaseTTL     int64  `mapstructure:"lease_ttl"`     // seconds
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Coordinator.Validate(); err != nil {
		return fmt.Errorf("coordinator config: %w", err)
	}

	if err := c.Ledger.Validate(); err != nil {
		return fmt.Errorf("ledger config: %w", err)
	}

	if c.Discovery.Enabled {
		if err := c.Etcd.Validate(); err != nil {
			return fmt.Errorf("etcd config: %w", err)
		}
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	return nil
}

// Validate validates coordinator configuration
func (c *CoordinatorConfig) Validate() error {
	if c.MinStakeAmount <= 0 {
		return fmt.Errorf("min_stake_amount must be positive")
	}

	if c.BaseRewardRate <= 0 {
		return fmt.Errorf("base_reward_rate must be positive")
	}

	if c.NetworkFee < 0 || c.NetworkFee >= 1 {
		return fmt.Errorf("network_fee must be in [0, 1)")
	}

	if c.UptimeThreshold <= 0 || c.UptimeThreshold > 1 {
		return fmt.Errorf("uptime_threshold must be in (0, 1]")
	}

	if c.SlashPercentage <= 0 || c.SlashPercentage >= 1 {
		return fmt.Errorf("slash_percentage must be in (0, 1)")
	}

	if c.OfflineThreshold <= 0 {
		return fmt.Errorf("offline_threshold must be positive")
	}

	for name, interval := range map[string]time.Duration{
		"heartbeat_interval":   c.HeartbeatInterval,
		"reward_interval":      c.RewardInterval,
		"performance_interval": c.PerformanceInterval,
		"metrics_interval":     c.MetricsInterval,
	} {
		if interval <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	if c.DirectRouteKm <= 0 {
		return fmt.Errorf("direct_route_km must be positive")
	}

	return nil
}

// Validate validates ledger configuration
func (c *LedgerConfig) Validate() error {
	switch c.Type {
	case "", "nats", "memory":
	default:
		return fmt.Errorf("ledger.type must be 'nats' or 'memory'")
	}

	if c.Type == "nats" && c.URL == "" {
		return fmt.Errorf("ledger.url is required for the nats ledger")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("ledger.timeout must be positive")
	}

	return nil
}

// Validate validates etcd configuration
func (c *EtcdConfig) Validate() error {
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("etcd.endpoints is required")
	}

	if c.DialTimeout <= 0 {
		return fmt.Errorf("etcd.dial_timeout must be positive")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
