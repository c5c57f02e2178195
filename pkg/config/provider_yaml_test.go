package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	path := writeConfig(t, `
influxdb:
  url: http://localhost:8086
  token: secret-token
  org: ual
export:
  ual_sensor: ual-4
  lubw_sensor: DEBW152
  join_mode: outer
`)

	cfg, err := NewYAMLProvider(path).LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.InfluxDB.URL != "http://localhost:8086" || cfg.InfluxDB.Org != "ual" {
		t.Errorf("influxdb section mismatch: %+v", cfg.InfluxDB)
	}
	if cfg.Export.JoinMode != "outer" {
		t.Errorf("join_mode mismatch: %q", cfg.Export.JoinMode)
	}
	// Defaults filled during validation.
	if cfg.Export.UALBucket != "ual_minute_measurement" || cfg.Export.LUBWBucket != "lubw_hour" {
		t.Errorf("bucket defaults not applied: %+v", cfg.Export)
	}
	if cfg.Export.AggregateEvery != "1h" {
		t.Errorf("aggregate_every default not applied: %q", cfg.Export.AggregateEvery)
	}
}

func TestYAMLProviderValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing token", "influxdb:\n  url: http://localhost:8086\n  org: ual\n"},
		{"missing url", "influxdb:\n  token: secret\n  org: ual\n"},
		{"unknown bucket", "influxdb:\n  url: http://x\n  token: t\n  org: o\nexport:\n  ual_bucket: nope\n"},
		{"unknown join mode", "influxdb:\n  url: http://x\n  token: t\n  org: o\nexport:\n  join_mode: cross\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := NewYAMLProvider(path).LoadConfig(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	if _, err := NewYAMLProvider("/nonexistent/config.yaml").LoadConfig(); err == nil {
		t.Error("expected error for missing file")
	}
}
