package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ShopName    string
	AccessToken string
	Port        string

	AllowedOrigins []string

	PublicDir      string
	ScratchDir     string
	CoverImagePath string

	SkipUnchanged bool
	RegenInterval time.Duration
}

// LoadConfig reads the environment (optionally seeded from a .env file)
// into a Config. Shop credentials are the only hard requirement.
func LoadConfig() (Config, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := Config{
		ShopName:       os.Getenv("SHOPIFY_SHOP_NAME"),
		AccessToken:    os.Getenv("SHOPIFY_ACCESS_TOKEN"),
		Port:           envOr("PORT", "3090"),
		PublicDir:      envOr("PUBLIC_DIR", "public"),
		ScratchDir:     envOr("TEMP_IMAGES_DIR", "temp_images"),
		CoverImagePath: envOr("COVER_IMAGE_PATH", "cover-catalog.jpg"),
		RegenInterval:  6 * time.Hour,
	}

	if cfg.ShopName == "" || cfg.AccessToken == "" {
		return Config{}, fmt.Errorf("SHOPIFY_SHOP_NAME and SHOPIFY_ACCESS_TOKEN must be set")
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}

	if v := os.Getenv("CATALOG_SKIP_UNCHANGED"); v != "" {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CATALOG_SKIP_UNCHANGED %q: %w", v, err)
		}
		cfg.SkipUnchanged = skip
	}

	if v := os.Getenv("REGEN_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REGEN_INTERVAL %q: %w", v, err)
		}
		cfg.RegenInterval = interval
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
