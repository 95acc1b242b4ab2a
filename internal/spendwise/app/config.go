package app

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full process configuration. Values come from app.yml in the
// working directory (or /etc/spendwise) with SPENDWISE_* environment
// variables taking precedence, e.g. SPENDWISE_JWT_SECRET.
type Config struct {
	Env       string `mapstructure:"env"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Port      int    `mapstructure:"port"`

	DatabaseFile string `mapstructure:"database_file"`
	PepperFile   string `mapstructure:"pepper_file"`

	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`

	CORSOrigins []string `mapstructure:"cors_origins"`

	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	SMTPFrom     string `mapstructure:"smtp_from"`

	ShutdownGracePeriod  time.Duration `mapstructure:"shutdown_grace_period"`
	HousekeepingInterval time.Duration `mapstructure:"housekeeping_interval"`
}

func LoadConfig() (Config, error) {
	v := viper.New()

	v.SetConfigName("app")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/spendwise")

	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("port", 8080)
	v.SetDefault("database_file", "spendwise.db")
	v.SetDefault("pepper_file", "pepper")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("cookie_name", "jwt")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("smtp_host", "localhost")
	v.SetDefault("smtp_port", 1025)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_password", "")
	v.SetDefault("smtp_from", "no-reply@spendwise.local")
	v.SetDefault("shutdown_grace_period", 10*time.Second)
	v.SetDefault("housekeeping_interval", time.Hour)

	v.SetEnvPrefix("SPENDWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, env vars and defaults cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
