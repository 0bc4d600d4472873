package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")              // Current directory
		v.AddConfigPath("./configs")      // Project configs directory
		v.AddConfigPath("./config")       // Alternative config directory
		v.AddConfigPath("/etc/relaymesh") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix("RELAYMESH")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 6600)

	// Coordinator defaults
	v.SetDefault("coordinator.min_stake_amount", 1000.0)
	v.SetDefault("coordinator.base_reward_rate", 0.5)
	v.SetDefault("coordinator.network_fee", 0.05)
	v.SetDefault("coordinator.uptime_threshold", 0.95)
	v.SetDefault("coordinator.slash_percentage", 0.10)
	v.SetDefault("coordinator.offline_threshold", "2m")
	v.SetDefault("coordinator.heartbeat_interval", "30s")
	v.SetDefault("coordinator.reward_interval", "1h")
	v.SetDefault("coordinator.performance_interval", "5m")
	v.SetDefault("coordinator.metrics_interval", "60s")
	v.SetDefault("coordinator.direct_route_km", 5000.0)
	v.SetDefault("coordinator.base_latency_ms", 50.0)
	v.SetDefault("coordinator.per_hop_latency_ms", 25.0)

	// Ledger defaults
	v.SetDefault("ledger.type", "nats")
	v.SetDefault("ledger.url", "nats://localhost:4222")
	v.SetDefault("ledger.subject_prefix", "ledger")
	v.SetDefault("ledger.timeout", "5s")

	// Queue defaults
	v.SetDefault("queue.type", "nats")
	v.SetDefault("queue.url", "nats://localhost:4222")

	// Etcd defaults
	v.SetDefault("etcd.endpoints", []string{"http://localhost:2379"})
	v.SetDefault("etcd.dial_timeout", "5s")

	// Discovery defaults
	v.SetDefault("discovery.enabled", false)
	v.SetDefault("discovery.lease_ttl", 10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 6600,
		},
		Coordinator: CoordinatorConfig{
			MinStakeAmount:      1000,
			BaseRewardRate:      0.5,
			NetworkFee:          0.05,
			UptimeThreshold:     0.95,
			SlashPercentage:     0.10,
			OfflineThreshold:    2 * time.Minute,
			HeartbeatInterval:   30 * time.Second,
			RewardInterval:      time.Hour,
			PerformanceInterval: 5 * time.Minute,
			MetricsInterval:     60 * time.Second,
			DirectRouteKm:       5000,
			BaseLatencyMs:       50,
			PerHopLatencyMs:     25,
		},
		Ledger: LedgerConfig{
			Type:          "memory",
			SubjectPrefix: "ledger",
			Timeout:       5 * time.Second,
		},
		Queue: QueueConfig{
			Type: "memory",
		},
		Etcd: EtcdConfig{
			Endpoints:   []string{"http://localhost:2379"},
			DialTimeout: 5 * time.Second,
		},
		Discovery: DiscoveryConfig{
			Enabled:  false,
			LeaseTTL: 10,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
