package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Restaurant struct {
		Name     string `yaml:"name"`
		Phone    string `yaml:"phone"`    // WhatsApp number for order handoff
		Address  string `yaml:"address"`
		Timezone string `yaml:"timezone"` // IANA name, default Europe/Rome
	} `yaml:"restaurant"`

	Server struct {
		Port     int    `yaml:"port"`
		AdminKey string `yaml:"admin_key"` // X-Admin-Key for back-office endpoints
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		StatusTTLSecond int    `yaml:"status_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Ordering struct {
		MinOrderDelivery string  `yaml:"min_order_delivery"` // decimal, e.g. "15.00"
		DeliveryFee      string  `yaml:"delivery_fee"`
		MaxItemsPerOrder int     `yaml:"max_items_per_order"`
		SubmitPerMinute  float64 `yaml:"submit_per_minute"` // per-client rate limit
		SubmitBurst      int     `yaml:"submit_burst"`
	} `yaml:"ordering"`

	Reservations struct {
		MinGuests         int `yaml:"min_guests"`
		MaxGuests         int `yaml:"max_guests"`
		MinAdvanceMinutes int `yaml:"min_advance_minutes"`
		MaxAdvanceDays    int `yaml:"max_advance_days"`
	} `yaml:"reservations"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"` // staff chat for order/reservation pings
	} `yaml:"telegram"`

	HoursConfigPath string `yaml:"hours_config_path"`
	MenuConfigPath  string `yaml:"menu_config_path"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Restaurant.Timezone == "" {
		cfg.Restaurant.Timezone = "Europe/Rome"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/trattoria.db"
	}
	if cfg.HoursConfigPath == "" {
		cfg.HoursConfigPath = "configs/hours.yaml"
	}
	if cfg.MenuConfigPath == "" {
		cfg.MenuConfigPath = "configs/menu.yaml"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// StatusTTL returns how long a resolved open state may be cached.
func (c *Config) StatusTTL() time.Duration {
	if c.Redis.StatusTTLSecond <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Redis.StatusTTLSecond) * time.Second
}

// ReservationMinAdvance returns the minimum lead time for a reservation.
func (c *Config) ReservationMinAdvance() time.Duration {
	if c.Reservations.MinAdvanceMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(c.Reservations.MinAdvanceMinutes) * time.Minute
}

// ReservationMaxAdvance returns how far ahead a reservation may be placed.
func (c *Config) ReservationMaxAdvance() time.Duration {
	if c.Reservations.MaxAdvanceDays <= 0 {
		return 30 * 24 * time.Hour
	}
	return time.Duration(c.Reservations.MaxAdvanceDays) * 24 * time.Hour
}
