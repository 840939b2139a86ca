package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/recon/internal/statement"
)

// FileName is the config file written by "recon init".
const FileName = "recon.yaml"

// Config represents the top-level recon.yaml configuration.
type Config struct {
	Statement StatementConfig `yaml:"statement"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
}

// StatementConfig describes the markup of the extracted statement table.
type StatementConfig struct {
	HeaderLabel        string `yaml:"header_label"`
	CurrencyMarker     string `yaml:"currency_marker"`
	ThousandsSeparator string `yaml:"thousands_separator"`
}

// OutputConfig controls how summaries are rendered.
type OutputConfig struct {
	Format   string `yaml:"format"`   // "text" or "json"
	Currency string `yaml:"currency"` // ISO 4217 code
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a recon.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config for TNG eWallet statements.
func Default() *Config {
	return &Config{
		Statement: StatementConfig{
			HeaderLabel:        "Date",
			CurrencyMarker:     "RM",
			ThousandsSeparator: ",",
		},
		Output: OutputConfig{
			Format:   "text",
			Currency: "MYR",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// amountChars carry meaning in a monetary cell and must never be stripped from it.
const amountChars = "0123456789.-+"

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Statement.HeaderLabel) == "" {
		problems = append(problems, "statement.header_label: cannot be empty")
	}
	if c.Statement.ThousandsSeparator != "" && c.Statement.ThousandsSeparator == c.Statement.CurrencyMarker {
		problems = append(problems, "statement.thousands_separator: must differ from currency_marker")
	}
	if strings.ContainsAny(c.Statement.ThousandsSeparator, amountChars) {
		problems = append(problems, fmt.Sprintf("statement.thousands_separator: %q would corrupt amounts", c.Statement.ThousandsSeparator))
	}
	if strings.ContainsAny(c.Statement.CurrencyMarker, amountChars) {
		problems = append(problems, fmt.Sprintf("statement.currency_marker: %q would corrupt amounts", c.Statement.CurrencyMarker))
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("output.format: unknown format %q", c.Output.Format))
	}
	if money.GetCurrency(c.Output.Currency) == nil {
		problems = append(problems, fmt.Sprintf("output.currency: unknown currency %q", c.Output.Currency))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil || c.Log.Level == "" {
		problems = append(problems, fmt.Sprintf("log.level: unknown level %q", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Layout returns the statement table conventions for the normalizer.
func (c *Config) Layout() statement.Layout {
	return statement.Layout{
		HeaderLabel:        c.Statement.HeaderLabel,
		CurrencyMarker:     c.Statement.CurrencyMarker,
		ThousandsSeparator: c.Statement.ThousandsSeparator,
	}
}
