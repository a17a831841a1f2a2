package quiz

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog holds the word lists a question prompt is assembled from.
type Catalog struct {
	Tones      []string `yaml:"tones"`
	Reasons    []string `yaml:"reasons"`
	Frameworks []string `yaml:"frameworks"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("quiz: embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes a YAML catalog and checks that every list is
// non-empty.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	switch {
	case len(c.Tones) == 0:
		return nil, errors.New("catalog has no tones")
	case len(c.Reasons) == 0:
		return nil, errors.New("catalog has no reasons")
	case len(c.Frameworks) == 0:
		return nil, errors.New("catalog has no frameworks")
	}
	return &c, nil
}

// Tone returns the tone word for question number n.
func (c *Catalog) Tone(n int64) string {
	return pick(c.Tones, n)
}

// Reason returns the framework reason phrase for question number n.
func (c *Catalog) Reason(n int64) string {
	return pick(c.Reasons, n)
}

// pick indexes list with the Euclidean remainder of n, so negative
// numbers wrap into range.
func pick(list []string, n int64) string {
	m := int64(len(list))
	i := n % m
	if i < 0 {
		i += m
	}
	return list[i]
}
