package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ModelURL        string        `mapstructure:"MODEL_URL"`
	ModelAPIKey     string        `mapstructure:"MODEL_API_KEY"`
	HistoryPath     string        `mapstructure:"HISTORY_PATH"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DatasetPath     string        `mapstructure:"DATASET_PATH"`
	DatasetCacheTTL time.Duration `mapstructure:"DATASET_CACHE_TTL"`
	AuthConfigPath  string        `mapstructure:"AUTH_CONFIG_PATH"`
}

// Load reads .env from the working directory, then the process environment.
// MODEL_URL and MODEL_API_KEY have no defaults.
func Load() (Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "45s")
	v.SetDefault("MODEL_URL", "")
	v.SetDefault("MODEL_API_KEY", "")
	v.SetDefault("HISTORY_PATH", "prediction_history.csv")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATASET_PATH", "data/telecom_churn_v2.csv")
	v.SetDefault("DATASET_CACHE_TTL", "5m")
	v.SetDefault("AUTH_CONFIG_PATH", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}
