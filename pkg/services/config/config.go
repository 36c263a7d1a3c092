package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendDuckDB = "duckdb"

	envPrefix = "SALES_ATLAS"
)

type Config struct {
	Server   ServerConfig `mapstructure:"server"`
	Data     DataConfig   `mapstructure:"data"`
	Charts   ChartsConfig `mapstructure:"charts"`
	Labels   string       `mapstructure:"labels"`
	LogLevel string       `mapstructure:"log_level" validate:"oneof=trace debug info warn error disabled"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DataConfig struct {
	Path       string `mapstructure:"path" validate:"required"`
	Backend    string `mapstructure:"backend" validate:"oneof=memory duckdb"`
	DuckDBPath string `mapstructure:"duckdb_path"`
}

type ChartsConfig struct {
	Width  int    `mapstructure:"width" validate:"gt=0"`
	Height int    `mapstructure:"height" validate:"gt=0"`
	Format string `mapstructure:"format" validate:"oneof=svg png"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8051)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("data.path", "supermarket_sales.csv")
	v.SetDefault("data.backend", BackendMemory)
	v.SetDefault("data.duckdb_path", "")
	v.SetDefault("charts.width", 1200)
	v.SetDefault("charts.height", 400)
	v.SetDefault("charts.format", "svg")
	v.SetDefault("labels", "")
	v.SetDefault("log_level", "info")
}

// Load reads defaults, the optional config file at path and SALES_ATLAS_*
// environment variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}

// Validate reports every invalid setting at once, named by its config key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("%s %s", configKey(fe), describe(fe)))
	}
	return errors.Join(errs...)
}

func configKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("must be at most %s, got %v", fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("must be greater than %s, got %v", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
