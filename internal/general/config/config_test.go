package config

import (
	"strings"
	"testing"
)

const sampleYAML = `
database:
  host: db.internal
  port: 5433
  user: claims
  password: "s3cret"
  database: trip_claims

rabbitmq:
  host: mq.internal
  port: 5672
  user: guest
  password: guest

services:
  claim_service: 3100
  review_service: 3104

jwt:
  secret_key: 'super-secret'

claiming:
  lead_time_hours: 48
  auto_dispatch_grace_minutes: 10
  auto_dispatch_lookahead_minutes: 20
  max_active_claims: 3
`

func TestParseYAML(t *testing.T) {
	var cfg Config
	if err := parseYAML(strings.NewReader(sampleYAML), &cfg); err != nil {
		t.Fatalf("parseYAML: %v", err)
	}

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Database.Password != "s3cret" {
		t.Errorf("quoted password not unquoted: %q", cfg.Database.Password)
	}
	if cfg.JWT.SecretKey != "super-secret" {
		t.Errorf("single-quoted secret not unquoted: %q", cfg.JWT.SecretKey)
	}
	if cfg.Services.ClaimServicePort != 3100 || cfg.Services.ReviewServicePort != 3104 {
		t.Errorf("services = %+v", cfg.Services)
	}
	if cfg.Claiming.LeadTimeHours != 48 || cfg.Claiming.MaxActiveClaims != 3 {
		t.Errorf("claiming = %+v", cfg.Claiming)
	}
}

func TestParseYAML_UnknownKey(t *testing.T) {
	var cfg Config
	err := parseYAML(strings.NewReader("database:\n  flavor: blue\n"), &cfg)
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("err = %v, want an unknown-key error", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if cfg.Services.ClaimServicePort != 3000 || cfg.Services.ReviewServicePort != 3004 {
		t.Errorf("service port defaults = %+v", cfg.Services)
	}
	if cfg.JWT.SecretKey == "" {
		t.Error("a random JWT secret must be generated when missing")
	}
	if cfg.Claiming.LeadTimeHours != 72 || cfg.Claiming.AutoDispatchGraceMinutes != 5 ||
		cfg.Claiming.AutoDispatchLookaheadMinutes != 30 || cfg.Claiming.MaxActiveClaims != 5 {
		t.Errorf("claiming defaults = %+v", cfg.Claiming)
	}
}

func TestValidate_CollectsProblems(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)
	// defaults leave DB credentials empty; validation must name them
	err := cfg.validate()
	if err == nil {
		t.Fatal("expected validation failure for missing credentials")
	}
	for _, want := range []string{"database.user", "database.password", "rabbitmq.user"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("validation error should mention %s, got %v", want, err)
		}
	}
}
