package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cleared-dev/recon/internal/statement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Statement.HeaderLabel = "Tarikh"
	cfg.Output.Format = "json"
	cfg.Log.Level = "debug"

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Date", cfg.Statement.HeaderLabel)
	assert.Equal(t, "RM", cfg.Statement.CurrencyMarker)
	assert.Equal(t, ",", cfg.Statement.ThousandsSeparator)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "MYR", cfg.Output.Currency)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "MYR", cfg.Output.Currency)
	assert.Equal(t, "Date", cfg.Statement.HeaderLabel)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: xml\n  currency: ZZZ\nlog:\n  level: loud\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `output.format: unknown format "xml"`)
	assert.Contains(t, err.Error(), `output.currency: unknown currency "ZZZ"`)
	assert.Contains(t, err.Error(), `log.level: unknown level "loud"`)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("statement: [\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestValidate_Statement(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty header", func(c *Config) { c.Statement.HeaderLabel = " " }, "statement.header_label"},
		{"separator equals marker", func(c *Config) {
			c.Statement.CurrencyMarker = "$"
			c.Statement.ThousandsSeparator = "$"
		}, "must differ from currency_marker"},
		{"dot separator", func(c *Config) { c.Statement.ThousandsSeparator = "." }, "would corrupt amounts"},
		{"dot marker", func(c *Config) { c.Statement.CurrencyMarker = "." }, "statement.currency_marker"},
		{"digit marker", func(c *Config) { c.Statement.CurrencyMarker = "RM1" }, "statement.currency_marker"},
		{"minus marker", func(c *Config) { c.Statement.CurrencyMarker = "-" }, "statement.currency_marker"},
		{"plus separator", func(c *Config) { c.Statement.ThousandsSeparator = "+" }, "statement.thousands_separator"},
		{"empty level", func(c *Config) { c.Log.Level = "" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, Default())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "header_label: Date")
	assert.Contains(t, contents, "currency_marker: RM")
	assert.Contains(t, contents, "format: text")
	assert.Contains(t, contents, "currency: MYR")
	assert.Contains(t, contents, "level: info")
}

func TestLayout(t *testing.T) {
	cfg := Default()
	cfg.Statement.CurrencyMarker = "MYR"

	layout := cfg.Layout()
	assert.Equal(t, "Date", layout.HeaderLabel)
	assert.Equal(t, "MYR", layout.CurrencyMarker)
	assert.Equal(t, ",", layout.ThousandsSeparator)
}

func TestValidate_MarkerKeepsAmountsIntact(t *testing.T) {
	cfg := Default()
	cfg.Statement.CurrencyMarker = "MYR"
	require.NoError(t, cfg.Validate())

	d, err := statement.NewNormalizer(cfg.Layout()).ParseAmount("MYR50.00")
	require.NoError(t, err)
	assert.Equal(t, "50", d.String())

	cfg.Statement.CurrencyMarker = "."
	require.Error(t, cfg.Validate())
}
