package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds all service configuration. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	OllamaAPIURL      string
	OllamaModel       string
	OllamaTemperature float64
	OllamaTopP        float64

	CoinGeckoAPIURL   string
	CryptoPanicAPIKey string
	CryptoPanicAPIURL string
	CoinMarketCapKey  string
	CoinMarketCapURL  string

	Port      string
	StaticDir string
}

// Load reads configuration from the environment. The CoinMarketCap key is
// optional; without it the fallback price provider stays disabled.
func Load() (Config, error) {
	cfg := Config{
		OllamaAPIURL:      os.Getenv("OLLAMA_API_URL"),
		OllamaModel:       envDefault("OLLAMA_MODEL", "llama2"),
		OllamaTemperature: envFloatDefault("OLLAMA_TEMPERATURE", 0.7),
		OllamaTopP:        envFloatDefault("OLLAMA_TOP_P", 0.9),
		CoinGeckoAPIURL:   os.Getenv("COINGECKO_API_URL"),
		CryptoPanicAPIKey: os.Getenv("CRYPTO_PANIC_API_KEY"),
		CryptoPanicAPIURL: os.Getenv("CRYPTOPANIC_API_URL"),
		CoinMarketCapKey:  os.Getenv("COINMARKETCAP_API_KEY"),
		CoinMarketCapURL:  os.Getenv("COINMARKETCAP_API_URL"),
		Port:              envDefault("PORT", "8080"),
		StaticDir:         envDefault("STATIC_DIR", "static"),
	}

	var validationErrs []string
	requireEnv("OLLAMA_API_URL", cfg.OllamaAPIURL, &validationErrs)
	requireEnv("CRYPTO_PANIC_API_KEY", cfg.CryptoPanicAPIKey, &validationErrs)
	requireEnv("COINGECKO_API_URL", cfg.CoinGeckoAPIURL, &validationErrs)

	if len(validationErrs) > 0 {
		return cfg, errors.New(strings.Join(validationErrs, "; "))
	}

	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatDefault(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func requireEnv(name, value string, errs *[]string) {
	if strings.TrimSpace(value) == "" {
		*errs = append(*errs, name+" is required")
	}
}
