package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the sensor hub
type Config struct {
	Serial     SerialConfig     `yaml:"serial"`
	Simulation SimulationConfig `yaml:"simulation"`
	DHT        DHTConfig        `yaml:"dht"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SerialConfig contains settings for the Arduino serial link
type SerialConfig struct {
	Port        string        `yaml:"port"`
	BaudRate    int           `yaml:"baud_rate"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// MaxReadings caps how many readings one capture session accepts
	MaxReadings int `yaml:"max_readings"`
}

// SimulationConfig controls the fallback feed used when no port opens
type SimulationConfig struct {
	Enabled bool     `yaml:"enabled"`
	Lines   []string `yaml:"lines"`
}

// DHTConfig contains settings for an optional DHT11 probe on a GPIO pin
type DHTConfig struct {
	Enabled  bool          `yaml:"enabled"`
	GPIOPin  int           `yaml:"gpio_pin"`
	SensorID string        `yaml:"sensor_id"`
	Interval time.Duration `yaml:"interval"`
	Samples  int           `yaml:"samples"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error"
	Level string `yaml:"level"`
	// Format is "json" or "text"
	Format string `yaml:"format"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	yamlData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	// an absent simulation section still means "simulate when the port is missing"
	config.Simulation.Enabled = true
	if err := yaml.Unmarshal(yamlData, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return finish(&config)
}

// LoadOrDefault behaves like LoadConfig but falls back to defaults when
// the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return finish(&Config{Simulation: SimulationConfig{Enabled: true}})
	}
	return cfg, err
}

func finish(config *Config) (*Config, error) {
	config.ApplyDefaults()
	config.OverrideFromEnv()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// ApplyDefaults sets default values for any unset fields
func (c *Config) ApplyDefaults() {
	if c.Serial.Port == "" {
		c.Serial.Port = defaultPort()
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = 9600
	}
	if c.Serial.ReadTimeout == 0 {
		c.Serial.ReadTimeout = 2 * time.Second
	}
	if c.Serial.MaxReadings == 0 {
		c.Serial.MaxReadings = 10
	}
	if c.DHT.SensorID == "" {
		c.DHT.SensorID = "DHT-01"
	}
	if c.DHT.Interval == 0 {
		c.DHT.Interval = 2 * time.Second
	}
	if c.DHT.Samples == 0 {
		c.DHT.Samples = 5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// OverrideFromEnv overrides config values from environment variables
func (c *Config) OverrideFromEnv() {
	// Only override if environment variable is set (non-empty)
	if v := os.Getenv("SERIAL_PORT"); v != "" {
		c.Serial.Port = v
	}
	if v := os.Getenv("SERIAL_BAUD_RATE"); v != "" {
		if baud, err := strconv.Atoi(v); err == nil {
			c.Serial.BaudRate = baud
		}
	}
	if v := os.Getenv("DHT_GPIO_PIN"); v != "" {
		if pin, err := strconv.Atoi(v); err == nil {
			c.DHT.GPIOPin = pin
			c.DHT.Enabled = true
		}
	}
	if v := os.Getenv("DHT_SENSOR_ID"); v != "" {
		c.DHT.SensorID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("serial baud rate must be greater than 0")
	}
	if c.Serial.ReadTimeout < 10*time.Millisecond {
		return fmt.Errorf("serial read timeout must be at least 10ms")
	}
	if c.Serial.MaxReadings < 1 || c.Serial.MaxReadings > 1000 {
		return fmt.Errorf("max readings must be between 1 and 1000")
	}
	if c.DHT.Enabled {
		if c.DHT.GPIOPin <= 0 {
			return fmt.Errorf("GPIO pin must be greater than 0")
		}
		if c.DHT.Interval < 1*time.Second {
			return fmt.Errorf("DHT interval must be at least 1 second")
		}
		if c.DHT.Samples < 1 {
			return fmt.Errorf("DHT samples must be at least 1")
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("log format must be json or text")
	}
	return nil
}

// String returns a one-line summary of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Serial: %+v, Simulation: [Enabled=%t, Lines=%d], DHT: %+v, Logging: %+v}",
		c.Serial,
		c.Simulation.Enabled,
		len(c.Simulation.Lines),
		c.DHT,
		c.Logging,
	)
}

// defaultPort guesses where an Arduino shows up on this platform
func defaultPort() string {
	switch runtime.GOOS {
	case "windows":
		return "COM3"
	case "darwin":
		return "/dev/tty.usbmodem1101"
	default:
		return "/dev/ttyACM0"
	}
}
