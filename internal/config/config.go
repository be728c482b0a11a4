// Package config loads the service's runtime settings from the process
// environment. Unlike the YAML configuration this project's ancestor used,
// every setting here comes from an environment variable, applying defaults
// the same way: read, parse, validate, then fall back.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Settings is the fully-resolved, validated configuration for a server run.
type Settings struct {
	ServerAddress string
	Port          int

	ImageMaxKiB     int
	ImageMinWidth   int
	ImageMinHeight  int
	ImageMaxWidth   int
	ImageMaxHeight  int

	WorkersCount int

	DMCPalettePath string
	LogLevel       string

	SVGFallbackLongSidePixels int
}

const (
	defaultServerAddress   = "0.0.0.0"
	defaultPort            = 8080
	defaultWorkersCount    = 2
	defaultLogLevel        = "info"
	defaultSVGFallbackSide = 1024
)

// Load reads Settings from the process environment, applying defaults for
// anything left unset.
func Load() (*Settings, error) {
	s := &Settings{
		ServerAddress: envOr("SERVER_ADDRESS", defaultServerAddress),
		WorkersCount:  defaultWorkersCount,
		LogLevel:      envOr("LOG_LEVEL", defaultLogLevel),
		SVGFallbackLongSidePixels: defaultSVGFallbackSide,
	}

	var err error
	if s.Port, err = envIntOr("PORT", defaultPort); err != nil {
		return nil, fmt.Errorf("config: PORT: %w", err)
	}
	if s.ImageMaxKiB, err = envIntOr("IMG_MAX_KIB", 0); err != nil {
		return nil, fmt.Errorf("config: IMG_MAX_KIB: %w", err)
	}
	if s.ImageMinWidth, err = envIntOr("IMG_MIN_WIDTH", 0); err != nil {
		return nil, fmt.Errorf("config: IMG_MIN_WIDTH: %w", err)
	}
	if s.ImageMinHeight, err = envIntOr("IMG_MIN_HEIGHT", 0); err != nil {
		return nil, fmt.Errorf("config: IMG_MIN_HEIGHT: %w", err)
	}
	if s.ImageMaxWidth, err = envIntOr("IMG_MAX_WIDTH", 0); err != nil {
		return nil, fmt.Errorf("config: IMG_MAX_WIDTH: %w", err)
	}
	if s.ImageMaxHeight, err = envIntOr("IMG_MAX_HEIGHT", 0); err != nil {
		return nil, fmt.Errorf("config: IMG_MAX_HEIGHT: %w", err)
	}
	if v, ok := os.LookupEnv("WORKERS_COUNT"); ok {
		if s.WorkersCount, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("config: WORKERS_COUNT: %w", err)
		}
	}
	if v, ok := os.LookupEnv("SVG_FALLBACK_LONG_SIDE_PX"); ok {
		if s.SVGFallbackLongSidePixels, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("config: SVG_FALLBACK_LONG_SIDE_PX: %w", err)
		}
	}

	s.DMCPalettePath = os.Getenv("DMC_PALETTE_PATH")
	if s.DMCPalettePath == "" {
		return nil, fmt.Errorf("config: DMC_PALETTE_PATH is required")
	}

	if s.WorkersCount <= 0 {
		return nil, fmt.Errorf("config: WORKERS_COUNT must be positive, got %d", s.WorkersCount)
	}
	if s.ImageMaxWidth > 0 && s.ImageMinWidth > s.ImageMaxWidth {
		return nil, fmt.Errorf("config: IMG_MIN_WIDTH (%d) exceeds IMG_MAX_WIDTH (%d)", s.ImageMinWidth, s.ImageMaxWidth)
	}
	if s.ImageMaxHeight > 0 && s.ImageMinHeight > s.ImageMaxHeight {
		return nil, fmt.Errorf("config: IMG_MIN_HEIGHT (%d) exceeds IMG_MAX_HEIGHT (%d)", s.ImageMinHeight, s.ImageMaxHeight)
	}

	return s, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
