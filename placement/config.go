// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package placement

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid layout config")

// Tier is one triangular band of the tree: a vertex at ApexY widening
// linearly to a flat bottom edge at BaseY.
type Tier struct {
	ApexY     float64 `yaml:"apex_y"`
	BaseY     float64 `yaml:"base_y"`
	HalfWidth float64 `yaml:"half_width"`
	// CenterX overrides Config.CenterX when non-zero.
	CenterX float64 `yaml:"center_x,omitempty"`
}

// Rect is an axis-aligned rectangle in canvas units.
type Rect struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// Config describes the canvas, the tree silhouette and the packing budgets.
// Coordinates grow rightward and downward from the top-left corner.
type Config struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	CenterX     float64 `yaml:"center_x"`
	MinDistance float64 `yaml:"min_distance"`
	Padding     float64 `yaml:"padding"`
	Tiers       []Tier  `yaml:"tiers"`
	Trunk       Rect    `yaml:"trunk"`
	FallbackY   float64 `yaml:"fallback_y"`

	PerturbAttempts int     `yaml:"perturb_attempts"`
	GridColumns     int     `yaml:"grid_columns"`
	DiskAttempts    int     `yaml:"disk_attempts"`
	DiskRadius      float64 `yaml:"disk_radius"`
	RelaxMargin     float64 `yaml:"relax_margin"`
}

// DefaultConfig is the 400x500 three-tier tree used by the guestbook.
func DefaultConfig() Config {
	return Config{
		Width:       400,
		Height:      500,
		CenterX:     200,
		MinDistance: 60,
		Padding:     40,
		Tiers: []Tier{
			{ApexY: 40, BaseY: 200, HalfWidth: 90},
			{ApexY: 120, BaseY: 320, HalfWidth: 140},
			{ApexY: 220, BaseY: 420, HalfWidth: 180},
		},
		Trunk:           Rect{MinX: 170, MinY: 420, MaxX: 230, MaxY: 480},
		FallbackY:       300,
		PerturbAttempts: 50,
		GridColumns:     10,
		DiskAttempts:    100,
		DiskRadius:      80,
		RelaxMargin:     2,
	}
}

// LoadConfig reads a YAML layout file. Fields missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read layout config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse layout config: %w", err)
	}

	if _, err := NewLayout(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) tierCenter(t Tier) float64 {
	if t.CenterX != 0 {
		return t.CenterX
	}
	return c.CenterX
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas must have a positive size", ErrInvalidConfig)
	}
	if c.MinDistance <= 0 {
		return fmt.Errorf("%w: min_distance must be positive", ErrInvalidConfig)
	}
	if c.Padding < 0 {
		return fmt.Errorf("%w: padding must not be negative", ErrInvalidConfig)
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("%w: at least one tier is required", ErrInvalidConfig)
	}
	for i, t := range c.Tiers {
		if t.BaseY <= t.ApexY {
			return fmt.Errorf("%w: tier %d base_y must be below apex_y", ErrInvalidConfig, i)
		}
		if t.HalfWidth <= c.Padding {
			return fmt.Errorf("%w: tier %d is narrower than the padding", ErrInvalidConfig, i)
		}
	}
	if c.GridColumns < 1 {
		return fmt.Errorf("%w: grid_columns must be at least 1", ErrInvalidConfig)
	}
	if c.PerturbAttempts < 0 || c.DiskAttempts < 0 || c.DiskRadius < 0 {
		return fmt.Errorf("%w: retry budgets must not be negative", ErrInvalidConfig)
	}
	return nil
}
