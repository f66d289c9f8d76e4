package game

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/samdwyer/minesweeper/internal/board"
)

// MaxDimension bounds width and height so row labels stay two digits.
const MaxDimension = 100

// Config holds game configuration options.
type Config struct {
	Width  int `env:"MINESWEEPER_WIDTH"  envDefault:"10"`
	Height int `env:"MINESWEEPER_HEIGHT" envDefault:"10"`
	Mines  int `env:"MINESWEEPER_MINES"  envDefault:"10"`

	// Seed for random number generation. Used for reproducible mine layouts.
	// A seed of 0 means a random seed will be generated.
	Seed int64 `env:"MINESWEEPER_SEED" envDefault:"0"`
}

// DefaultConfig returns the classic 10x10 board with 10 mines.
func DefaultConfig() Config {
	return Config{Width: 10, Height: 10, Mines: 10}
}

// LoadConfig reads configuration from MINESWEEPER_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether a board can be built from the config.
func (c Config) Validate() error {
	if c.Width > MaxDimension || c.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d board exceeds %dx%d", board.ErrInvalidConfig, c.Width, c.Height, MaxDimension, MaxDimension)
	}
	return board.Validate(c.Width, c.Height, c.Mines)
}
