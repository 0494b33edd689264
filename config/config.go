package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/AaronWong1999/silver-calculator-page/market"
	"github.com/AaronWong1999/silver-calculator-page/risk"
)

// Config is the complete monitor configuration. It replaces the
// prototype's habit of regex-scraping ladder state out of an HTML page
// with a typed file the operator edits directly.
type Config struct {
	Ladders []LadderConfig `json:"ladders" yaml:"ladders"`
	Policy  PolicyConfig   `json:"policy" yaml:"policy"`
	Mail    MailConfig     `json:"mail" yaml:"mail"`
	Journal JournalConfig  `json:"journal" yaml:"journal"`
}

// LadderConfig is one tracked DCA ladder as last manually synced.
// AssumedSafetyRate is a pointer so an explicit 0 (a fully
// margin-financed next purchase) stays distinguishable from an absent
// key, which means "use the stock default".
type LadderConfig struct {
	Name string `json:"name" yaml:"name"`

	EntryPrice        float64  `json:"entry_price" yaml:"entry_price"`
	Equity            float64  `json:"equity" yaml:"equity"`
	Lots              int64    `json:"lots" yaml:"lots"`
	ContractSize      float64  `json:"contract_size" yaml:"contract_size"`
	MarginRate        float64  `json:"margin_rate" yaml:"margin_rate"`
	AssumedSafetyRate *float64 `json:"assumed_safety_rate,omitempty" yaml:"assumed_safety_rate,omitempty"`

	// Conversion maps the feed's USD/oz quote into this ladder's local
	// basis. Absent means the ladder is quoted like the feed.
	Conversion *ConversionConfig `json:"conversion,omitempty" yaml:"conversion,omitempty"`
}

// ConversionConfig describes the quote normalization for a ladder.
type ConversionConfig struct {
	FxRate    float64 `json:"fx_rate" yaml:"fx_rate"`
	OunceToKg bool    `json:"ounce_to_kg" yaml:"ounce_to_kg"`
}

// PolicyConfig contains the alert rule constants. Pointer fields keep
// an explicit 0 (a valid value: proximity 0 arms a rule at the exact
// threshold only) apart from an absent key, which falls back to the
// stock default. A value the operator wrote is never rewritten.
type PolicyConfig struct {
	RatioFloor         *float64 `json:"ratio_floor,omitempty" yaml:"ratio_floor,omitempty"`
	BuyProximityPct    *float64 `json:"buy_proximity_pct,omitempty" yaml:"buy_proximity_pct,omitempty"`
	MarginProximityPct *float64 `json:"margin_proximity_pct,omitempty" yaml:"margin_proximity_pct,omitempty"`
}

// MailConfig contains SMTP delivery parameters. Credentials left empty
// in the file fall back to MAIL_USERNAME / MAIL_PASSWORD / MAIL_TO.
type MailConfig struct {
	Host     string `json:"smtp_host" yaml:"smtp_host"`
	Port     int    `json:"smtp_port" yaml:"smtp_port"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	To       string `json:"to,omitempty" yaml:"to,omitempty"`
}

// JournalConfig contains alert journaling parameters. An empty db_path
// disables journaling. SuppressWindow is a duration string ("4h",
// "30m"): an alert whose kind+ladder already appears in the journal
// within that window is recorded but not re-mailed, so a five-minute
// cron does not resend the same breach all day. Empty disables
// suppression.
type JournalConfig struct {
	DBPath         string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	SuppressWindow string `json:"suppress_window,omitempty" yaml:"suppress_window,omitempty"`
}

// ParseSuppressWindow converts the window string to a time.Duration.
func (j JournalConfig) ParseSuppressWindow() (time.Duration, error) {
	if j.SuppressWindow == "" {
		return 0, nil
	}
	return time.ParseDuration(j.SuppressWindow)
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (format by extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Ladders) == 0 {
		return fmt.Errorf("at least one ladder is required")
	}
	seen := map[string]bool{}
	for i, l := range c.Ladders {
		if l.Name == "" {
			return fmt.Errorf("ladder %d: name is required", i)
		}
		if seen[l.Name] {
			return fmt.Errorf("ladder %q: duplicate name", l.Name)
		}
		seen[l.Name] = true
		if l.EntryPrice <= 0 {
			return fmt.Errorf("ladder %q: entry_price must be positive", l.Name)
		}
		if l.Lots < 0 {
			return fmt.Errorf("ladder %q: lots must not be negative", l.Name)
		}
		if l.ContractSize <= 0 {
			return fmt.Errorf("ladder %q: contract_size must be positive", l.Name)
		}
		if l.MarginRate < 0 || l.MarginRate >= 1 {
			return fmt.Errorf("ladder %q: margin_rate must be in [0,1)", l.Name)
		}
		if l.AssumedSafetyRate != nil && (*l.AssumedSafetyRate < 0 || *l.AssumedSafetyRate >= 100) {
			return fmt.Errorf("ladder %q: assumed_safety_rate must be in [0,100)", l.Name)
		}
		if l.Conversion != nil && l.Conversion.FxRate <= 0 {
			return fmt.Errorf("ladder %q: conversion.fx_rate must be positive", l.Name)
		}
	}
	if c.Policy.RatioFloor != nil && *c.Policy.RatioFloor < 0 {
		return fmt.Errorf("policy.ratio_floor must not be negative")
	}
	if c.Policy.BuyProximityPct != nil && *c.Policy.BuyProximityPct < 0 {
		return fmt.Errorf("policy.buy_proximity_pct must not be negative")
	}
	if c.Policy.MarginProximityPct != nil && *c.Policy.MarginProximityPct < 0 {
		return fmt.Errorf("policy.margin_proximity_pct must not be negative")
	}
	if c.Mail.Host != "" && c.Mail.Port <= 0 {
		return fmt.Errorf("mail.smtp_port must be positive when smtp_host is set")
	}
	if _, err := c.Journal.ParseSuppressWindow(); err != nil {
		return fmt.Errorf("journal.suppress_window: %w", err)
	}
	return nil
}

// Snapshot builds the validated position snapshot for this ladder.
func (l LadderConfig) Snapshot() (risk.Snapshot, error) {
	return risk.NewSnapshot(
		decimal.NewFromFloat(l.EntryPrice),
		decimal.NewFromFloat(l.Equity),
		l.Lots,
		decimal.NewFromFloat(l.ContractSize),
		decimal.NewFromFloat(l.MarginRate),
	)
}

// SafetyRate returns the ladder's assumed safety rate as a decimal
// percentage. Only an absent key takes the default of 20; an explicit
// 0 is a real operator choice and passes through untouched.
func (l LadderConfig) SafetyRate() decimal.Decimal {
	if l.AssumedSafetyRate == nil {
		return decimal.NewFromInt(20)
	}
	return decimal.NewFromFloat(*l.AssumedSafetyRate)
}

// PriceConversion returns the normalization to apply to the live quote
// before evaluating this ladder.
func (l LadderConfig) PriceConversion() market.Conversion {
	if l.Conversion == nil {
		return market.Identity()
	}
	if l.Conversion.OunceToKg {
		return market.OunceUSDToKilogram(decimal.NewFromFloat(l.Conversion.FxRate))
	}
	return market.Conversion{
		Rate:       decimal.NewFromFloat(l.Conversion.FxRate),
		UnitFactor: decimal.NewFromInt(1),
	}
}

// RiskPolicy converts the configured constants into the evaluator's
// policy. Defaults fill in for absent keys only; any value the
// operator wrote, zero included, reaches the evaluator as written.
func (p PolicyConfig) RiskPolicy() risk.Policy {
	pol := risk.DefaultPolicy()
	if p.RatioFloor != nil {
		pol.RatioFloor = decimal.NewFromFloat(*p.RatioFloor)
	}
	if p.BuyProximityPct != nil {
		pol.BuyProximityPct = decimal.NewFromFloat(*p.BuyProximityPct)
	}
	if p.MarginProximityPct != nil {
		pol.MarginProximityPct = decimal.NewFromFloat(*p.MarginProximityPct)
	}
	return pol
}

// WithEnv fills empty mail credentials from the environment, matching
// how the original cron job was deployed.
func (m MailConfig) WithEnv() MailConfig {
	if m.Username == "" {
		m.Username = os.Getenv("MAIL_USERNAME")
	}
	if m.Password == "" {
		m.Password = os.Getenv("MAIL_PASSWORD")
	}
	if m.To == "" {
		m.To = os.Getenv("MAIL_TO")
	}
	return m
}

// Configured reports whether delivery is set up at all.
func (m MailConfig) Configured() bool {
	return m.Host != "" && m.Username != "" && m.Password != "" && m.To != ""
}

// Float is a convenience for the optional numeric fields above.
func Float(v float64) *float64 {
	return &v
}

// Default returns a configuration with sensible defaults: the two
// ladders the monitor grew up with, stock policy, Gmail SMTP.
func Default() *Config {
	return &Config{
		Ladders: []LadderConfig{
			{
				Name:              "moo",
				EntryPrice:        30,
				Equity:            1000,
				Lots:              2,
				ContractSize:      5000,
				MarginRate:        0.1,
				AssumedSafetyRate: Float(20),
			},
			{
				Name:              "cn",
				EntryPrice:        7000,
				Equity:            30000,
				Lots:              1,
				ContractSize:      15,
				MarginRate:        0.12,
				AssumedSafetyRate: Float(20),
				Conversion: &ConversionConfig{
					FxRate:    7.3,
					OunceToKg: true,
				},
			},
		},
		Policy: PolicyConfig{
			RatioFloor:         Float(44),
			BuyProximityPct:    Float(1),
			MarginProximityPct: Float(5),
		},
		Mail: MailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Journal: JournalConfig{
			DBPath:         "./silvermon.sqlite",
			SuppressWindow: "4h",
		},
	}
}
