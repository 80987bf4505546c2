package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string
	Env           string
	StoreURL      string
	StoreAnonKey  string
	DatabaseURL   string
	DefaultLocale string
	OverridesFile string
}

// Load reads the environment, then applies the operator overrides file on
// top. The overrides file lets a deployment repoint the remote store without
// touching the environment, the way the browser build kept its endpoint in
// local storage.
func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "3000"),
		Env:           getEnv("ENV", "development"),
		StoreURL:      strings.TrimRight(getEnv("STORE_URL", "http://localhost:54321"), "/"),
		StoreAnonKey:  getEnv("STORE_ANON_KEY", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "fr"),
		OverridesFile: getEnv("OVERRIDES_FILE", "overrides.yaml"),
	}
	cfg.applyOverrides()
	return cfg
}

func (c *Config) applyOverrides() {
	v := viper.New()
	v.SetConfigFile(c.OverridesFile)
	if err := v.ReadInConfig(); err != nil {
		// Missing file means no overrides.
		return
	}
	if u := v.GetString("store_url"); u != "" {
		c.StoreURL = strings.TrimRight(u, "/")
	}
	if k := v.GetString("store_anon_key"); k != "" {
		c.StoreAnonKey = k
	}
}

// SaveOverrides persists a new store endpoint and key to the overrides file
// so they survive restarts.
func (c *Config) SaveOverrides(storeURL, anonKey string) error {
	v := viper.New()
	v.SetConfigFile(c.OverridesFile)
	v.Set("store_url", strings.TrimRight(storeURL, "/"))
	v.Set("store_anon_key", anonKey)
	if err := v.WriteConfigAs(c.OverridesFile); err != nil {
		return fmt.Errorf("write overrides: %w", err)
	}
	c.StoreURL = strings.TrimRight(storeURL, "/")
	c.StoreAnonKey = anonKey
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
