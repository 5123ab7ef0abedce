package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

type OpenFoodFacts struct {
	APIBaseURL string `env:"KCAL_OFF_API_BASE_URL" envDefault:"https://world.openfoodfacts.org"`
	Lang       string `env:"KCAL_LANG" envDefault:"ru"`
	Country    string `env:"KCAL_COUNTRY" envDefault:"ru"`
	PageSize   int    `env:"KCAL_PAGE_SIZE" envDefault:"5"`
}

func LoadOpenFoodFactsFromEnv() (OpenFoodFacts, error) {
	var cfg OpenFoodFacts
	if err := env.Parse(&cfg); err != nil {
		return OpenFoodFacts{}, fmt.Errorf("could not parse env config: %w", err)
	}

	baseURL, err := url.Parse(cfg.APIBaseURL)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return OpenFoodFacts{}, fmt.Errorf("could not validate KCAL_OFF_API_BASE_URL: must be a valid absolute URL")
	}

	if baseURL.Scheme != "https" {
		return OpenFoodFacts{}, fmt.Errorf("could not validate KCAL_OFF_API_BASE_URL: https scheme is required")
	}

	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		return OpenFoodFacts{}, fmt.Errorf("could not validate KCAL_PAGE_SIZE: must be between 1 and 100")
	}
	return cfg, nil
}
