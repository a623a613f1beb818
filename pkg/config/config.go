package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/kass/go-geo-fence/pkg/batch"
	"github.com/kass/go-geo-fence/pkg/record"
)

// Config holds all geofence configuration
type Config struct {
	Fields  record.Fields `mapstructure:"fields"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Log     LogConfig     `mapstructure:"log"`
	PostGIS PostGISConfig `mapstructure:"postgis"`
}

type BatchConfig struct {
	Workers         int `mapstructure:"workers"`
	SequentialBelow int `mapstructure:"sequential_below"`
}

// Options converts the section into batch options
func (b BatchConfig) Options() []batch.Option {
	return []batch.Option{batch.WithOptions(batch.Options{
		Workers:         b.Workers,
		SequentialBelow: b.SequentialBelow,
	})}
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type PostGISConfig struct {
	// DSN overrides the individual connection fields when set
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString returns the lib/pq connection string
func (p PostGISConfig) ConnString() string {
	if p.DSN != "" {
		return p.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Load reads configuration from defaults, an optional YAML file and
// GEOFENCE_ prefixed environment variables. An empty path searches for
// geofence.yaml in . and ./configs.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("fields.lng", record.DefaultFields.Lng)
	v.SetDefault("fields.lat", record.DefaultFields.Lat)
	v.SetDefault("batch.workers", runtime.NumCPU())
	v.SetDefault("batch.sequential_below", batch.DefaultSequentialBelow)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("postgis.dsn", "")
	v.SetDefault("postgis.host", "localhost")
	v.SetDefault("postgis.port", 5432)
	v.SetDefault("postgis.user", "postgres")
	v.SetDefault("postgis.password", "")
	v.SetDefault("postgis.dbname", "geodb")
	v.SetDefault("postgis.sslmode", "disable")

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName("geofence")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	// GEOFENCE_BATCH_WORKERS → batch.workers
	v.SetEnvPrefix("GEOFENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Fields.Lng) == "" || strings.TrimSpace(c.Fields.Lat) == "" {
		errs = append(errs, "fields.lng and fields.lat are required")
	}
	if c.Batch.Workers <= 0 {
		errs = append(errs, fmt.Sprintf("batch.workers must be positive, got %d", c.Batch.Workers))
	}
	if c.Batch.SequentialBelow < 0 {
		errs = append(errs, fmt.Sprintf("batch.sequential_below must not be negative, got %d", c.Batch.SequentialBelow))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.PostGIS.DSN == "" && (c.PostGIS.Port <= 0 || c.PostGIS.Port > 65535) {
		errs = append(errs, fmt.Sprintf("postgis.port must be 1-65535, got %d", c.PostGIS.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
