package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hszdev/i3-energy-tracker/color"
	"github.com/hszdev/i3-energy-tracker/logging"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	config, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.EnergyPrice.Region != "DK1" {
		t.Errorf("Expected region DK1, got %s", config.EnergyPrice.Region)
	}
	if config.EnergyPrice.BaseURL != "https://nrgi.dk/api/common/pricehistory" {
		t.Errorf("Unexpected base url %s", config.EnergyPrice.BaseURL)
	}
	if config.EnergyPrice.Timeout != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %v", config.EnergyPrice.Timeout)
	}
	if config.Color.Min != color.DefaultMin || config.Color.Max != color.DefaultMax {
		t.Errorf("Expected color bounds %d-%d, got %d-%d", color.DefaultMin, color.DefaultMax, config.Color.Min, config.Color.Max)
	}
	if len(config.Color.Stops) != len(color.DefaultStops) {
		t.Errorf("Expected %d color stops, got %d", len(color.DefaultStops), len(config.Color.Stops))
	}
	if !strings.HasSuffix(config.Cache.Dir, filepath.Join("i3-energy-tracker", "data")) {
		t.Errorf("Unexpected cache dir %s", config.Cache.Dir)
	}
	if config.Mqtt.Enabled() {
		t.Errorf("Expected mqtt to be disabled by default")
	}
	if config.Database.GetDataRetentionDays() != 365 {
		t.Errorf("Expected retention 365, got %d", config.Database.GetDataRetentionDays())
	}
	if config.Logging.GetConsoleLevel() != slog.LevelInfo {
		t.Errorf("Expected console level INFO, got %v", config.Logging.GetConsoleLevel())
	}
	if config.Logging.GetDbAttrsFormat() != logging.LogAttrFormatJSON {
		t.Errorf("Expected JSON attrs format, got %s", config.Logging.GetDbAttrsFormat())
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
energy_price:
  region: DK2
  timeout: 3s
cache:
  dir: /tmp/prices
color:
  min: 250
  max: 700
  stops: ["#000000", "#111111", "#222222"]
mqtt:
  host: broker.local
logging:
  console_level: debug
  db_attrs_format: text
  db_max_entries: 50
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.EnergyPrice.Region != "DK2" {
		t.Errorf("Expected region DK2, got %s", config.EnergyPrice.Region)
	}
	if config.EnergyPrice.Timeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %v", config.EnergyPrice.Timeout)
	}
	if config.Cache.Dir != "/tmp/prices" {
		t.Errorf("Expected cache dir /tmp/prices, got %s", config.Cache.Dir)
	}
	g, err := config.Color.Gradient()
	if err != nil {
		t.Fatal(err)
	}
	if g.Min() != 250 || g.Max() != 700 || len(g.Stops()) != 3 {
		t.Errorf("Unexpected gradient %v %d-%d", g.Stops(), g.Min(), g.Max())
	}
	if !config.Mqtt.Enabled() || config.Mqtt.Port != 1883 {
		t.Errorf("Expected mqtt on broker.local:1883, got %s:%d", config.Mqtt.Host, config.Mqtt.Port)
	}
	if config.Logging.GetConsoleLevel() != slog.LevelDebug {
		t.Errorf("Expected console level DEBUG, got %v", config.Logging.GetConsoleLevel())
	}
	if config.Logging.GetDbAttrsFormat() != logging.LogAttrFormatText {
		t.Errorf("Expected TEXT attrs format, got %s", config.Logging.GetDbAttrsFormat())
	}
	if config.Logging.GetDbMaxEntries() != 50 {
		t.Errorf("Expected 50 db entries, got %d", config.Logging.GetDbMaxEntries())
	}
}

func TestLoadEnv(t *testing.T) {
	isolate(t)
	t.Setenv("ENERGY_PRICE_REGION", "DK2")
	t.Setenv("COLOR_MAX", "900")
	t.Setenv("MQTT_HOST", "10.0.0.2")

	config, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.EnergyPrice.Region != "DK2" {
		t.Errorf("Expected region DK2 from env, got %s", config.EnergyPrice.Region)
	}
	if config.Color.Max != 900 {
		t.Errorf("Expected color max 900 from env, got %d", config.Color.Max)
	}
	if config.Mqtt.Host != "10.0.0.2" {
		t.Errorf("Expected mqtt host from env, got %s", config.Mqtt.Host)
	}
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Expected an error for a missing explicit config file")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("color:\n  min: 900\n  max: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("Expected an error for inverted color bounds")
	}
}
