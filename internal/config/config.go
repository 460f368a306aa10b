package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Logger   LoggerConfig
	Security SecurityConfig
}

type ServerConfig struct {
	Host            string        `validate:"required"`
	Port            int           `validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	IdleTimeout     time.Duration `validate:"gte=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// DatasetConfig locates the persisted collection and the parameters used to
// bootstrap it when the file does not exist yet.
type DatasetConfig struct {
	CSVFile       string `validate:"required"`
	GenerateCount int    `validate:"min=1,max=365"`
	Seed          int64
	CacheDir      string
}

type LoggerConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json text"`
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int `validate:"gt=0"`
	RateLimitBurst  int `validate:"gt=0"`
	AllowedOrigins  []string
	TrustedProxies  []string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Load() (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Dataset: DatasetConfig{
			CSVFile:       v.GetString("DATASET_CSV_FILE"),
			GenerateCount: v.GetInt("DATASET_GENERATE_COUNT"),
			Seed:          v.GetInt64("DATASET_SEED"),
			CacheDir:      v.GetString("DATASET_CACHE_DIR"),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Security: SecurityConfig{
			EnableRateLimit: v.GetBool("SECURITY_RATE_LIMIT_ENABLED"),
			RateLimitRPS:    v.GetInt("SECURITY_RATE_LIMIT_RPS"),
			RateLimitBurst:  v.GetInt("SECURITY_RATE_LIMIT_BURST"),
			AllowedOrigins:  splitList(v.GetString("SECURITY_ALLOWED_ORIGINS")),
			TrustedProxies:  splitList(v.GetString("SECURITY_TRUSTED_PROXIES")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", 8084)
	v.SetDefault("SERVER_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)

	v.SetDefault("DATASET_CSV_FILE", "data/sales.csv")
	v.SetDefault("DATASET_GENERATE_COUNT", 365)
	v.SetDefault("DATASET_SEED", 42)
	v.SetDefault("DATASET_CACHE_DIR", ".cache")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SECURITY_RATE_LIMIT_ENABLED", true)
	v.SetDefault("SECURITY_RATE_LIMIT_RPS", 100)
	v.SetDefault("SECURITY_RATE_LIMIT_BURST", 10)
	v.SetDefault("SECURITY_ALLOWED_ORIGINS", "http://localhost:8084")
	v.SetDefault("SECURITY_TRUSTED_PROXIES", "127.0.0.1")
}

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%s: value %v does not satisfy %q", fe.Namespace(), fe.Value(), fe.Tag()+paramSuffix(fe.Param()))
		}
		return err
	}

	if c.Server.WriteTimeout < c.Server.ReadTimeout {
		return fmt.Errorf("server write timeout (%s) must not be shorter than read timeout (%s)",
			c.Server.WriteTimeout, c.Server.ReadTimeout)
	}

	return nil
}

func paramSuffix(param string) string {
	if param == "" {
		return ""
	}
	return "=" + param
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
