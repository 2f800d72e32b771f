package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Store      StoreConfig      `yaml:"store"`
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
	Rules      RulesConfig      `yaml:"rules"`
	Hours      HoursConfig      `yaml:"hours"`
	Operating  OperatingConfig  `yaml:"operating"`
	AutoAccept AutoAcceptConfig `yaml:"auto_accept"`
	Printer    PrinterConfig    `yaml:"printer"`
}

type StoreConfig struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// RulesConfig carries the business rules the validation and lifecycle
// engines enforce.
type RulesConfig struct {
	MinOrderAmount        int `yaml:"min_order_amount"`
	MaxItemsPerOrder      int `yaml:"max_items_per_order"`
	MaxOrdersPerHour      int `yaml:"max_orders_per_hour"`
	MaxPreparationMinutes int `yaml:"max_preparation_minutes"`
	CancelTimeoutMinutes  int `yaml:"cancel_timeout_minutes"`
	DelayThresholdMinutes int `yaml:"delay_threshold_minutes"`
}

type HoursConfig struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

// OperatingConfig is the optional per-weekday schedule. When disabled the
// flat Hours window applies.
type OperatingConfig struct {
	Enabled         bool                 `yaml:"enabled"`
	Days            map[string]DayConfig `yaml:"days"`
	Break           BreakConfig          `yaml:"break"`
	RegularHolidays []string             `yaml:"regular_holidays"`
	TempHolidays    []string             `yaml:"temp_holidays"`
}

type DayConfig struct {
	Enabled bool   `yaml:"enabled"`
	Open    string `yaml:"open"`
	Close   string `yaml:"close"`
}

type BreakConfig struct {
	Enabled bool   `yaml:"enabled"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
}

type AutoAcceptConfig struct {
	Enabled            bool `yaml:"enabled"`
	PreparationMinutes int  `yaml:"preparation_minutes"`
}

type PrinterConfig struct {
	AutoPrintEnabled bool   `yaml:"auto_print_enabled"`
	SpoolDir         string `yaml:"spool_dir"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when a field is absent from the
// config file.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Name: "YumYum Pickup"},
		HTTP:  HTTPConfig{Port: 3000},
		Rules: RulesConfig{
			MinOrderAmount:        1000,
			MaxItemsPerOrder:      10,
			MaxOrdersPerHour:      50,
			MaxPreparationMinutes: 30,
			CancelTimeoutMinutes:  5,
			DelayThresholdMinutes: 20,
		},
		Hours: HoursConfig{Open: "09:00", Close: "22:00"},
		AutoAccept: AutoAcceptConfig{
			Enabled:            false,
			PreparationMinutes: 15,
		},
		Printer: PrinterConfig{AutoPrintEnabled: true},
	}
}
