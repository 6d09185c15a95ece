package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string // YAML key: "database"
	}
	RabbitMQ struct {
		Host     string
		Port     int
		User     string
		Password string
	}
	WebSocket struct {
		Port int
	}
	Services struct {
		ClaimServicePort  int
		ReviewServicePort int
	}
	JWT struct {
		SecretKey string `yaml:"secret_key"`
	}
	Claiming struct {
		LeadTimeHours                int // claims open this many hours before pickup
		AutoDispatchGraceMinutes     int // auto-assignment priority window after trip creation
		AutoDispatchLookaheadMinutes int // pickups inside this horizon go to auto-dispatch first
		MaxActiveClaims              int // PENDING+ACCEPTED cap per trip
	}
}

// LoadFromFile loads config from a YAML file to a Config struct, applies defaults, and validates required fields.
func LoadFromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := parseYAML(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets safe defaults for some fields.
func applyDefaults(cfg *Config) {
	// Database
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}

	// RabbitMQ
	if cfg.RabbitMQ.Host == "" {
		cfg.RabbitMQ.Host = "localhost"
	}
	if cfg.RabbitMQ.Port == 0 {
		cfg.RabbitMQ.Port = 5672
	}

	// WebSocket
	if cfg.WebSocket.Port == 0 {
		cfg.WebSocket.Port = 8080
	}

	// Services
	if cfg.Services.ClaimServicePort == 0 {
		cfg.Services.ClaimServicePort = 3000
	}
	if cfg.Services.ReviewServicePort == 0 {
		cfg.Services.ReviewServicePort = 3004
	}

	if cfg.JWT.SecretKey == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			// fallback: time-based bytes
			key = []byte(fmt.Sprintf("%d", time.Now().UnixNano()))
		}
		cfg.JWT.SecretKey = base64.StdEncoding.EncodeToString(key)
	}

	// Claiming policy (production values)
	if cfg.Claiming.LeadTimeHours == 0 {
		cfg.Claiming.LeadTimeHours = 72
	}
	if cfg.Claiming.AutoDispatchGraceMinutes == 0 {
		cfg.Claiming.AutoDispatchGraceMinutes = 5
	}
	if cfg.Claiming.AutoDispatchLookaheadMinutes == 0 {
		cfg.Claiming.AutoDispatchLookaheadMinutes = 30
	}
	if cfg.Claiming.MaxActiveClaims == 0 {
		cfg.Claiming.MaxActiveClaims = 5
	}
}

// validate checks required fields and basic ranges.
func (c *Config) validate() error {
	var problems []string

	// DB
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		problems = append(problems, "database.port must be in 1..65535")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.Database.Password == "" {
		problems = append(problems, "database.password is required")
	}
	if c.Database.Name == "" {
		problems = append(problems, "database.database is required")
	}

	// RabbitMQ
	if c.RabbitMQ.Port <= 0 || c.RabbitMQ.Port > 65535 {
		problems = append(problems, "rabbitmq.port must be in 1..65535")
	}
	if c.RabbitMQ.User == "" {
		problems = append(problems, "rabbitmq.user is required")
	}
	if c.RabbitMQ.Password == "" {
		problems = append(problems, "rabbitmq.password is required")
	}

	// Services
	if c.Services.ClaimServicePort <= 0 || c.Services.ClaimServicePort > 65535 {
		problems = append(problems, "services.claim_service must be in 1..65535")
	}
	if c.Services.ReviewServicePort <= 0 || c.Services.ReviewServicePort > 65535 {
		problems = append(problems, "services.review_service must be in 1..65535")
	}

	// Claiming
	if c.Claiming.LeadTimeHours < 0 {
		problems = append(problems, "claiming.lead_time_hours must not be negative")
	}
	if c.Claiming.AutoDispatchGraceMinutes < 0 {
		problems = append(problems, "claiming.auto_dispatch_grace_minutes must not be negative")
	}
	if c.Claiming.AutoDispatchLookaheadMinutes < 0 {
		problems = append(problems, "claiming.auto_dispatch_lookahead_minutes must not be negative")
	}
	if c.Claiming.MaxActiveClaims < 1 {
		problems = append(problems, "claiming.max_active_claims must be >= 1")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
