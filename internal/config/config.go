package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the runtime.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Channel  ChannelConfig  `mapstructure:"channel"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Sinks    SinksConfig    `mapstructure:"sinks"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Discover DiscoverConfig `mapstructure:"discovery"`
}

// ServerConfig contains the ambient HTTP status/introspection server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// NodeSetPath names the UANodeSet XML file the demo CLIs and ops
	// server load their address space from. Empty means "use the small
	// built-in demo address space" (addrspace.Demo).
	NodeSetPath string `mapstructure:"nodeset_path"`
	// WatchNodeSet enables fsnotify-based hot reload of NodeSetPath.
	WatchNodeSet bool `mapstructure:"watch_nodeset"`
}

// ChannelConfig is the demo tools' single hard-coded secure-channel
// configuration (spec §6 "Environment").
type ChannelConfig struct {
	EndpointURL        string `mapstructure:"endpoint_url"`
	SecurityPolicyURI  string `mapstructure:"security_policy_uri"`
	SecurityMode       string `mapstructure:"security_mode"` // None, Sign, SignAndEncrypt
	LifetimeMs         int    `mapstructure:"lifetime_ms"`
	RetrySleepIncrement int   `mapstructure:"retry_sleep_increment_ms"`
	CertPath           string `mapstructure:"cert_path"`
	KeyPath            string `mapstructure:"key_path"`
	PKIPath            string `mapstructure:"pki_path"` // may be a filesystem dir or s3://bucket/prefix
}

// AuditConfig configures the sqlite audit/historian store.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

// SinksConfig configures the optional downstream telemetry/historian sinks.
type SinksConfig struct {
	InfluxDB InfluxDBSinkConfig `mapstructure:"influxdb"`
	MQTT     MQTTSinkConfig     `mapstructure:"mqtt"`
	Redis    RedisSinkConfig    `mapstructure:"redis"`
}

type InfluxDBSinkConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	URL         string `mapstructure:"url"`
	Token       string `mapstructure:"token"`
	Org         string `mapstructure:"org"`
	Bucket      string `mapstructure:"bucket"`
	Measurement string `mapstructure:"measurement"`
}

type MQTTSinkConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Broker  string `mapstructure:"broker"`
	Topic   string `mapstructure:"topic"`
}

type RedisSinkConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Channel string `mapstructure:"channel"`
}

// DiscoverConfig drives the optional cron-scheduled re-discovery loop and
// the multicast group the discovery/register demo tools announce on.
type DiscoverConfig struct {
	CronExpr      string   `mapstructure:"cron_expr"` // e.g. "@every 5m"
	MulticastAddr string   `mapstructure:"multicast_addr"`
	ServerName    string   `mapstructure:"server_name"`
	DiscoveryURL  string   `mapstructure:"discovery_url"`
	Capabilities  []string `mapstructure:"capabilities"`
}

// LoggerConfig contains logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	LogDir string `mapstructure:"log_dir"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		v.AddConfigPath(getConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("OPCUACORE")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.nodeset_path", "")
	v.SetDefault("server.watch_nodeset", false)

	v.SetDefault("channel.endpoint_url", "opc.tcp://localhost:4840")
	v.SetDefault("channel.security_policy_uri", "http://opcfoundation.org/UA/SecurityPolicy#None")
	v.SetDefault("channel.security_mode", "None")
	v.SetDefault("channel.lifetime_ms", 3600000)
	v.SetDefault("channel.retry_sleep_increment_ms", 500)
	v.SetDefault("channel.pki_path", "./pki")

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.db_path", "./data/audit.db")

	v.SetDefault("sinks.influxdb.enabled", false)
	v.SetDefault("sinks.mqtt.enabled", false)
	v.SetDefault("sinks.redis.enabled", false)

	v.SetDefault("discovery.cron_expr", "@every 5m")
	v.SetDefault("discovery.multicast_addr", "239.255.0.1:4845")
	v.SetDefault("discovery.server_name", "opcuacore-demo")
	v.SetDefault("discovery.discovery_url", "opc.tcp://localhost:4840")
	v.SetDefault("discovery.capabilities", []string{"DA"})

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.log_dir", "./logs")
}

func getConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".opcuacore")
}
