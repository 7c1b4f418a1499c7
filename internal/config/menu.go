package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ProductConfig is a single menu entry in menu.yaml.
type ProductConfig struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Price       string   `yaml:"price"` // decimal string, e.g. "8.50"
	Tags        []string `yaml:"tags,omitempty"`
	Allergens   []string `yaml:"allergens,omitempty"`
	Visible     *bool    `yaml:"visible,omitempty"` // default true
}

// CategoryConfig groups products; order in the file is display order.
type CategoryConfig struct {
	Name     string          `yaml:"name"`
	Visible  *bool           `yaml:"visible,omitempty"`
	Products []ProductConfig `yaml:"products"`
}

// MenuConfig is the root configuration for menu.yaml.
type MenuConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// LoadMenuConfig loads and validates the menu configuration.
func LoadMenuConfig(path string) (*MenuConfig, error) {
	if path == "" {
		path = "configs/menu.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu config: %w", err)
	}

	var cfg MenuConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse menu config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate menu config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *MenuConfig) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("no categories defined")
	}

	catNames := make(map[string]bool)
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category[%d]: missing name", i)
		}
		if catNames[cat.Name] {
			return fmt.Errorf("category[%d]: duplicate name %q", i, cat.Name)
		}
		catNames[cat.Name] = true

		prodNames := make(map[string]bool)
		for j, p := range cat.Products {
			if p.Name == "" {
				return fmt.Errorf("category %q product[%d]: missing name", cat.Name, j)
			}
			if prodNames[p.Name] {
				return fmt.Errorf("category %q product[%d]: duplicate name %q", cat.Name, j, p.Name)
			}
			prodNames[p.Name] = true

			price, err := decimal.NewFromString(p.Price)
			if err != nil {
				return fmt.Errorf("category %q product %q: invalid price %q", cat.Name, p.Name, p.Price)
			}
			if price.IsNegative() {
				return fmt.Errorf("category %q product %q: negative price", cat.Name, p.Name)
			}
		}
	}
	return nil
}

// IsVisible resolves the optional Visible flag, defaulting to true.
func IsVisible(v *bool) bool {
	return v == nil || *v
}
