package auth

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type Cookie struct {
	Name       string `yaml:"name"`
	Key        string `yaml:"key"`
	ExpiryDays int    `yaml:"expiry_days"`
}

// Config mirrors the credentials file:
//
//	credentials:
//	  usernames:
//	    alice: {name: Alice, password: <bcrypt hash>}
//	cookie: {name: churn_auth, key: secret, expiry_days: 30}
type Config struct {
	Credentials struct {
		Usernames map[string]User `yaml:"usernames"`
	} `yaml:"credentials"`
	Cookie Cookie `yaml:"cookie"`
}

func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read auth config: %w", err)
	}
	return ParseConfig(raw)
}

func ParseConfig(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse auth config: %w", err)
	}
	if cfg.Cookie.Key == "" {
		return Config{}, errors.New("auth config: cookie.key is required")
	}
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = "churn_guard_auth"
	}
	if cfg.Cookie.ExpiryDays <= 0 {
		cfg.Cookie.ExpiryDays = 30
	}
	if len(cfg.Credentials.Usernames) == 0 {
		return Config{}, errors.New("auth config: no users defined")
	}
	return cfg, nil
}
