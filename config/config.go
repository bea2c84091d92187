// Package config loads the trk settings from the environment and an optional
// config file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/tracker"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application settings.
type Config struct {
	LedgerFile     string
	CatalogFile    string
	PriceCacheFile string

	// DisplayCurrency is the currency reports are shown in.
	DisplayCurrency string
	// QuoteCurrency is the currency prices are fetched in.
	QuoteCurrency string
	PriceTTL      time.Duration

	PriceURL          string
	PricePath         string
	PriceAPIKeyHeader string
	PriceAPIKey       string
	FXURL             string
	FXPath            string
	FXCacheDir        string

	ListenAddr     string
	AllowedOrigins []string
	RateLimit      string

	LogLevel slog.Level

	GeminiAPIKey string
	GeminiModel  string
}

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TRK"

// Dir returns the default directory for trk files.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "trk")
}

func setDefaults(v *viper.Viper) {
	dir := Dir()
	v.SetDefault("ledger_file", filepath.Join(dir, "ledger.jsonl"))
	v.SetDefault("catalog_file", filepath.Join(dir, "catalog.yaml"))
	v.SetDefault("price_cache_file", filepath.Join(dir, "prices.json"))
	v.SetDefault("display_currency", "EUR")
	v.SetDefault("quote_currency", "USD")
	v.SetDefault("price_ttl", "15m")
	v.SetDefault("price_url", "https://api.coingecko.com/api/v3/simple/price?ids={id}&vs_currencies={currency_lower}")
	v.SetDefault("price_path", "$.{id}.{currency_lower}")
	v.SetDefault("price_api_key_header", "x-cg-demo-api-key")
	v.SetDefault("price_api_key", "")
	v.SetDefault("fx_url", "https://open.er-api.com/v6/latest/{from}")
	v.SetDefault("fx_path", "$.rates.{to}")
	v.SetDefault("fx_cache_dir", "")
	v.SetDefault("listen_addr", "localhost:8080")
	v.SetDefault("allowed_origins", "http://localhost:5173")
	v.SetDefault("rate_limit", "300-M")
	v.SetDefault("log_level", "info")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
}

// Load reads the configuration.
//
// Values come, by order of precedence, from TRK_* environment variables
// (a .env file in the current directory is loaded first), the config file and
// the defaults. If path is empty, trk.yaml is looked up in Dir and is
// optional.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config %q: %w", path, err)
		}
	} else {
		v.SetConfigName("trk")
		v.AddConfigPath(Dir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("could not read config: %w", err)
			}
		}
	}

	cfg := &Config{
		LedgerFile:        v.GetString("ledger_file"),
		CatalogFile:       v.GetString("catalog_file"),
		PriceCacheFile:    v.GetString("price_cache_file"),
		DisplayCurrency:   strings.ToUpper(v.GetString("display_currency")),
		QuoteCurrency:     strings.ToUpper(v.GetString("quote_currency")),
		PriceURL:          v.GetString("price_url"),
		PricePath:         v.GetString("price_path"),
		PriceAPIKeyHeader: v.GetString("price_api_key_header"),
		PriceAPIKey:       v.GetString("price_api_key"),
		FXURL:             v.GetString("fx_url"),
		FXPath:            v.GetString("fx_path"),
		FXCacheDir:        v.GetString("fx_cache_dir"),
		ListenAddr:        v.GetString("listen_addr"),
		AllowedOrigins:    list(v, "allowed_origins"),
		RateLimit:         v.GetString("rate_limit"),
		GeminiAPIKey:      v.GetString("gemini_api_key"),
		GeminiModel:       v.GetString("gemini_model"),
	}

	var errs []error
	ttl, err := time.ParseDuration(v.GetString("price_ttl"))
	if err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("invalid price_ttl %q", v.GetString("price_ttl")))
	}
	cfg.PriceTTL = ttl
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		errs = append(errs, fmt.Errorf("invalid log_level: %w", err))
	}
	if !tracker.ValidCurrency(cfg.DisplayCurrency) {
		errs = append(errs, fmt.Errorf("invalid display_currency %q", cfg.DisplayCurrency))
	}
	if !tracker.ValidCurrency(cfg.QuoteCurrency) {
		errs = append(errs, fmt.Errorf("invalid quote_currency %q", cfg.QuoteCurrency))
	}
	if cfg.LedgerFile == "" {
		errs = append(errs, errors.New("ledger_file is required"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// list reads key either as a list from a config file, or as a comma
// separated string.
func list(v *viper.Viper, key string) []string {
	if _, ok := v.Get(key).([]any); ok {
		return v.GetStringSlice(key)
	}
	return strings.FieldsFunc(v.GetString(key), func(r rune) bool { return r == ',' || r == ' ' })
}
