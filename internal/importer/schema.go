package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogSchema is the top-level YAML structure for a catalog import.
type CatalogSchema struct {
	Stages         []StageImport         `yaml:"stages"`
	ClosureActions []ClosureActionImport `yaml:"closure_actions"`
}

// StageImport defines one stage and its days. Order defaults to the stage's
// 1-based position in the file.
type StageImport struct {
	ID    string      `yaml:"id,omitempty"`
	Kind  string      `yaml:"kind"`
	Order *int        `yaml:"order,omitempty"`
	Title string      `yaml:"title"`
	Days  []DayImport `yaml:"days"`
}

// DayImport defines one day. Number defaults to the day's 1-based position
// within its stage.
type DayImport struct {
	ID     string `yaml:"id,omitempty"`
	Number *int   `yaml:"number,omitempty"`
	Title  string `yaml:"title"`
}

type ClosureActionImport struct {
	ID    string `yaml:"id,omitempty"`
	Title string `yaml:"title"`
	Order *int   `yaml:"order,omitempty"`
}

// LoadCatalogSchema reads and parses a catalog YAML file.
func LoadCatalogSchema(path string) (*CatalogSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalogSchema(data)
}

// ParseCatalogSchema parses catalog YAML. Unknown fields are rejected so a
// typo does not silently drop data.
func ParseCatalogSchema(data []byte) (*CatalogSchema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var schema CatalogSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return &schema, nil
}
