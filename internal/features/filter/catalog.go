package filter

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSteps is used when a catalog omits distance.steps.
const DefaultSteps = 50

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog holds the configurable filter options shown to clients.
type Catalog struct {
	Types        []string      `yaml:"types" json:"types"`
	Distance     DistanceRange `yaml:"distance" json:"distance"`
	Placeholders Placeholders  `yaml:"placeholders" json:"placeholders"`
}

type DistanceRange struct {
	Min   float64 `yaml:"min" json:"min"`
	Max   float64 `yaml:"max" json:"max"`
	Steps int     `yaml:"steps" json:"steps"`
}

type Placeholders struct {
	DateRange string `yaml:"dateRange" json:"dateRange"`
	AllUsers  string `yaml:"allUsers" json:"allUsers"`
}

// LoadCatalog reads the catalog from path, or the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read filter catalog: %w", err)
		}
		data = b
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded filter catalog: %v", err))
	}
	return c
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse filter catalog: %w", err)
	}
	if c.Distance.Steps == 0 {
		c.Distance.Steps = DefaultSteps
	}
	if c.Placeholders.DateRange == "" {
		c.Placeholders.DateRange = DateRangePlaceholder
	}
	if c.Placeholders.AllUsers == "" {
		c.Placeholders.AllUsers = UsersLabel(0)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	if len(c.Types) == 0 {
		return errors.New("filter catalog: at least one type is required")
	}
	seen := make(map[string]struct{}, len(c.Types))
	for _, t := range c.Types {
		if t == "" {
			return errors.New("filter catalog: empty type label")
		}
		if _, ok := seen[t]; ok {
			return fmt.Errorf("filter catalog: duplicate type %q", t)
		}
		seen[t] = struct{}{}
	}
	if !isFinite(c.Distance.Min) || !isFinite(c.Distance.Max) ||
		c.Distance.Min < 0 || c.Distance.Min >= c.Distance.Max {
		return fmt.Errorf("filter catalog: invalid distance range [%v, %v]", c.Distance.Min, c.Distance.Max)
	}
	if c.Distance.Steps <= 0 {
		return fmt.Errorf("filter catalog: steps must be positive, got %d", c.Distance.Steps)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (c *Catalog) HasType(label string) bool {
	for _, t := range c.Types {
		if t == label {
			return true
		}
	}
	return false
}

// Reducer returns a reducer bound to this catalog's slider range.
func (c *Catalog) Reducer() Reducer {
	return Reducer{
		MinKm:       c.Distance.Min,
		MaxKm:       c.Distance.Max,
		Placeholder: c.Placeholders.DateRange,
	}
}
