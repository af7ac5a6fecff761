package config

import (
	"errors"
	"fmt"
	"os"

	"descanso/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Logging    LoggingConfig    `yaml:"logging"`
	Storage    StorageConfig    `yaml:"storage"`
	Backup     BackupConfig     `yaml:"backup"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	API        APIConfig        `yaml:"api"`
	Loyalty    LoyaltyConfig    `yaml:"loyalty"`
	Desk       DeskConfig       `yaml:"desk"`
	Rates      RatesConfig      `yaml:"rates"`
	Rooms      []models.Room    `yaml:"rooms"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Port int `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type LoyaltyConfig struct {
	// PointsPerDiscount points buy 1% off the checkout subtotal.
	PointsPerDiscount float64 `yaml:"points_per_discount"`
}

type DeskConfig struct {
	SessionTTL       int    `yaml:"session_ttl"`
	RateLimitActions int    `yaml:"rate_limit_actions"`
	RateLimitWindow  int    `yaml:"rate_limit_window"`
	AdminEmail       string `yaml:"admin_email"`
	AdminPassword    string `yaml:"admin_password"`
}

// RatesConfig is the nightly rate per room tier. A room's rate is
// resolved from this table once, when the room is registered.
type RatesConfig struct {
	Standard     float64 `yaml:"standard"`
	Luxury       float64 `yaml:"luxury"`
	Presidential float64 `yaml:"presidential"`
}

func (r RatesConfig) For(category models.RoomCategory) float64 {
	switch category {
	case models.CategoryLuxury:
		return r.Luxury
	case models.CategoryPresidential:
		return r.Presidential
	default:
		return r.Standard
	}
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment variables referenced in the YAML
	// are expanded before parsing.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return errors.New("storage path is required")
	}
	if c.Loyalty.PointsPerDiscount <= 0 {
		return errors.New("loyalty points_per_discount must be positive")
	}
	return ValidateRooms(c.Rooms)
}

// ValidateRooms rejects duplicate room numbers, unknown categories and
// non-positive capacities in the seeded inventory.
func ValidateRooms(rooms []models.Room) error {
	numbers := make(map[string]bool)
	for _, room := range rooms {
		if room.Number == "" {
			return errors.New("room with empty number in config")
		}
		if numbers[room.Number] {
			return fmt.Errorf("duplicate room number found: %s", room.Number)
		}
		numbers[room.Number] = true
		if !models.ValidCategory(room.Category) {
			return fmt.Errorf("room %s has unknown category %q", room.Number, room.Category)
		}
		if room.Capacity <= 0 {
			return fmt.Errorf("room %s has invalid capacity %d", room.Number, room.Capacity)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Rates.Standard == 0 {
		c.Rates.Standard = 150
	}
	if c.Rates.Luxury == 0 {
		c.Rates.Luxury = 300
	}
	if c.Rates.Presidential == 0 {
		c.Rates.Presidential = 600
	}
	if c.Loyalty.PointsPerDiscount == 0 {
		c.Loyalty.PointsPerDiscount = models.DefaultPointsPerDiscount
	}
	// Rooms seeded without an explicit rate get their category rate.
	for i := range c.Rooms {
		if c.Rooms[i].DailyRate == 0 {
			c.Rooms[i].DailyRate = c.Rates.For(c.Rooms[i].Category)
		}
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	if c.Desk.SessionTTL == 0 {
		c.Desk.SessionTTL = models.DefaultSessionTTL
	}
	if c.Desk.RateLimitActions == 0 {
		c.Desk.RateLimitActions = models.RateLimitActions
	}
	if c.Desk.RateLimitWindow == 0 {
		c.Desk.RateLimitWindow = models.RateLimitWindow
	}
	if c.Desk.AdminEmail == "" {
		c.Desk.AdminEmail = "admin@hotel.local"
	}
	if c.Desk.AdminPassword == "" {
		c.Desk.AdminPassword = "admin"
	}
}
