package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Backend holds the commerce REST API configuration.
	Backend BackendConfig `mapstructure:",squash"`

	// Redis holds the cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Auth holds the session token configuration.
	Auth AuthConfig `mapstructure:",squash"`

	// Uploads holds the limits applied to admin image uploads.
	Uploads UploadConfig `mapstructure:",squash"`
}

// BackendConfig holds the connection details of the commerce REST API.
type BackendConfig struct {
	// URL is the API root, without the /v1 prefix.
	URL string `mapstructure:"API_ROOT" required:"true"`
	// Timeout bounds a single backend request.
	Timeout time.Duration `mapstructure:"API_TIMEOUT" default:"10m"`
}

// RedisConfig holds the Redis connection and cache lifetimes.
type RedisConfig struct {
	// URL is in the format redis://[:password@]host[:port][/database].
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// CatalogTTL is how long public product and category reads are cached.
	CatalogTTL time.Duration `mapstructure:"CATALOG_CACHE_TTL" default:"5m"`
	// DashboardTTL is how long admin dashboard aggregates are cached.
	DashboardTTL time.Duration `mapstructure:"DASHBOARD_CACHE_TTL" default:"1m"`
	// CartTTL is how long a mirrored cart survives without a refresh.
	CartTTL time.Duration `mapstructure:"CART_CACHE_TTL" default:"30m"`
	// InFlightTTL is the upper bound of a single in-flight action lock.
	InFlightTTL time.Duration `mapstructure:"INFLIGHT_LOCK_TTL" default:"30s"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	// AccessSecret verifies HS256 access tokens. Admin routes are decided
	// from the token's role claim, so the gateway does not start without it.
	AccessSecret string `mapstructure:"JWT_ACCESS_SECRET" required:"true"`
}

// UploadConfig holds admin upload limits.
type UploadConfig struct {
	// MaxBytes is the largest accepted image.
	MaxBytes int64 `mapstructure:"UPLOAD_MAX_BYTES" default:"10485760"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags binds every tagged field to its env key and registers defaults.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
