package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/nao1215/ghcrawl/internal/model"
)

// DefaultEnvFile is the dotenv file loaded when present.
const DefaultEnvFile = ".env"

// LoadEnv overlays GHCRAWL_* environment variables onto c, e.g.
// GHCRAWL_TIMEOUT=10s. Unset variables leave the current value alone.
// Variables from envFile are added first without replacing ones already
// set in the process. A missing envFile is not an error.
func (c *Config) LoadEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	return c.normalizeEnums()
}

// normalizeEnums applies the same parsing to GHCRAWL_TYPE and
// GHCRAWL_ROTATION as the config file and flags get.
func (c *Config) normalizeEnums() error {
	if c.Category != "" {
		category, err := model.ParseCategory(c.Category.String())
		if err != nil {
			return fmt.Errorf("invalid environment: GHCRAWL_TYPE: %w", err)
		}
		c.Category = category
	}

	rotation, err := model.ParseRotation(c.Rotation.String())
	if err != nil {
		return fmt.Errorf("invalid environment: GHCRAWL_ROTATION: %w", err)
	}
	c.Rotation = rotation
	return nil
}
