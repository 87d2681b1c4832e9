package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hszdev/i3-energy-tracker/color"
	"github.com/hszdev/i3-energy-tracker/logging"
	"github.com/hszdev/i3-energy-tracker/nrgi"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const appName = "i3-energy-tracker"

type AppConfigEnergyPrice struct {
	BaseURL  string        `mapstructure:"base_url"`
	Region   string        `mapstructure:"region"`   // "DK1" (West) or "DK2" (East)
	Timezone string        `mapstructure:"timezone"` // Market time zone, hours in the API are local to it
	Timeout  time.Duration `mapstructure:"timeout"`  // Upper bound for a single API request
}

type AppConfigCache struct {
	// Directory holding one prices-<date>.json file per fetched day.
	Dir string `mapstructure:"dir"`
}

type AppConfigColor struct {
	Min        int      `mapstructure:"min"`   // Prices at or below are painted with the first stop (øre)
	Max        int      `mapstructure:"max"`   // Prices at or above are painted with the last stop (øre)
	Stops      []string `mapstructure:"stops"` // Cheap to expensive, #RRGGBB
	Foreground string   `mapstructure:"foreground"`
}

func (c AppConfigColor) Gradient() (color.Gradient, error) {
	return color.NewGradient(c.Stops, c.Min, c.Max)
}

type AppConfigDatabase struct {
	// Empty disables the price archive and the log table.
	Path string
	// How many days of archived prices to keep
	DataRetentionDays *int `mapstructure:"data_retention_days"`
}

func (d AppConfigDatabase) GetDataRetentionDays() int {
	if d.DataRetentionDays == nil {
		return 365
	}
	return *d.DataRetentionDays
}

type AppConfigWatch struct {
	RenderAt      string `mapstructure:"render_at"`      // When to print a new status line
	PrefetchAt    string `mapstructure:"prefetch_at"`    // When to fetch tomorrow's prices
	MaintenanceAt string `mapstructure:"maintenance_at"` // When to purge the log and archive
}

type AppConfigMqtt struct {
	Host     string // Empty disables publishing
	Port     int16
	Username string
	Password string
	Topic    string
	ClientID string `mapstructure:"client_id"`
}

func (m AppConfigMqtt) Enabled() bool {
	return m.Host != ""
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for console (stderr): "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return logging.LogAttrFormatJSON
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.LogAttrFormatText
	}
	return logging.LogAttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	EnergyPrice AppConfigEnergyPrice `mapstructure:"energy_price"`
	Cache       AppConfigCache       `mapstructure:"cache"`
	Color       AppConfigColor       `mapstructure:"color"`
	Database    AppConfigDatabase    `mapstructure:"database"`
	Watch       AppConfigWatch       `mapstructure:"watch"`
	Mqtt        AppConfigMqtt        `mapstructure:"mqtt"`
	Logging     AppConfigLogging     `mapstructure:"logging"`
}

// Load reads the config file at path, or looks for config.yaml in ./config
// and the user config directory. A missing file is not an error when no
// explicit path is given, defaults and environment variables apply.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	for _, p := range envPaths() {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	if _, err := c.Color.Gradient(); err != nil {
		return nil, fmt.Errorf("invalid color config: %w", err)
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("energy_price.base_url", nrgi.DefaultBaseURL)
	v.SetDefault("energy_price.region", nrgi.DefaultRegion)
	v.SetDefault("energy_price.timezone", "Europe/Copenhagen")
	v.SetDefault("energy_price.timeout", 10*time.Second)

	v.SetDefault("cache.dir", filepath.Join(dataDir(), "data"))
	v.SetDefault("database.path", filepath.Join(dataDir(), appName+".db"))

	v.SetDefault("color.min", color.DefaultMin)
	v.SetDefault("color.max", color.DefaultMax)
	v.SetDefault("color.stops", color.DefaultStops)
	v.SetDefault("color.foreground", "#FFFFFF")

	v.SetDefault("watch.render_at", "0 * * * *")
	v.SetDefault("watch.prefetch_at", "15 13 * * *")
	v.SetDefault("watch.maintenance_at", "30 2 * * *")

	v.SetDefault("mqtt.host", "")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic", "energy/price/current")
	v.SetDefault("mqtt.client_id", appName)
}

// dataDir is where cached prices and the database live by default.
func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", appName)
	}
	return "."
}

func envPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, appName, ".env"))
	}
	return paths
}
