package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Output selects the publisher: "mqtt" talks to the broker directly,
	// "homeassistant" relays through its mqtt.publish service.
	Output        string              `yaml:"output"`
	MQTT          MQTTConfig          `yaml:"mqtt"`
	HomeAssistant HomeAssistantConfig `yaml:"homeassistant"`
	HTTP          HTTPConfig          `yaml:"http"`
	Input         InputConfig         `yaml:"input"`
	Pushover      PushoverConfig      `yaml:"pushover"`
	Log           LogConfig           `yaml:"log"`
	// VocabularyFile optionally replaces the built-in tables.
	VocabularyFile string `yaml:"vocabulary_file"`
}

type MQTTConfig struct {
	Broker         string `yaml:"broker"`
	ClientID       string `yaml:"client_id"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	QoS            byte   `yaml:"qos"`
	Retained       bool   `yaml:"retained"`
	TopicRoot      string `yaml:"topic_root"`
	StatusQuery    bool   `yaml:"status_query"`
	StatusTimeout  string `yaml:"status_timeout"`
	ConnectRetries int    `yaml:"connect_retries"`
}

type HomeAssistantConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

type HTTPConfig struct {
	Addr          string `yaml:"addr"`
	AuthToken     string `yaml:"auth_token"`
	RatePerMinute int    `yaml:"rate_per_minute"`
}

type InputConfig struct {
	Source  string `yaml:"source"`
	FileDir string `yaml:"file_dir"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Device  string `yaml:"device"`
	Enabled bool   `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	if c.Output == "" {
		c.Output = "mqtt"
	}
	if c.MQTT.Broker == "" {
		c.MQTT.Broker = "tcp://pixie:1883"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "bedroom-mark"
	}
	if c.MQTT.TopicRoot == "" {
		c.MQTT.TopicRoot = "ha/"
	}
	if c.MQTT.StatusTimeout == "" {
		c.MQTT.StatusTimeout = "5s"
	}
	if c.MQTT.ConnectRetries == 0 {
		c.MQTT.ConnectRetries = 5
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.RatePerMinute == 0 {
		c.HTTP.RatePerMinute = 30
	}
	if c.Input.Source == "" {
		c.Input.Source = "http"
	}
	if c.Input.FileDir == "" {
		c.Input.FileDir = "./spool"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func (c *Config) validate() error {
	switch c.Output {
	case "mqtt":
	case "homeassistant":
		if c.HomeAssistant.URL == "" {
			return fmt.Errorf("homeassistant.url is required when output is homeassistant")
		}
	default:
		return fmt.Errorf("unknown output %q", c.Output)
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", c.MQTT.QoS)
	}
	if c.MQTT.TopicRoot[len(c.MQTT.TopicRoot)-1] != '/' {
		return fmt.Errorf("mqtt.topic_root must end with '/', got %q", c.MQTT.TopicRoot)
	}
	if c.HTTP.RatePerMinute < 0 {
		return fmt.Errorf("http.rate_per_minute must not be negative")
	}
	return nil
}
