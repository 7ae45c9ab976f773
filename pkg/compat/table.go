// Package compat provides the platform compatibility table: a versioned,
// externally editable lookup from catalog-declared platform names to canonical
// platform tags. The table is data, not code: new vendor spellings are added
// to the embedded YAML without touching resolution logic.
package compat

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed compat_map.yaml
var compatRawData []byte

// Mapping is one (pattern, tags) pair. Pattern is matched as a
// case-insensitive substring of the catalog platform name.
type Mapping struct {
	Pattern string   `yaml:"pattern"`
	Tags    []string `yaml:"tags"`
}

// tableFile is the top-level structure of the embedded YAML.
type tableFile struct {
	Version     int               `yaml:"version"`
	Mappings    []Mapping         `yaml:"mappings"`
	Successors  map[string]string `yaml:"successors"`
	LinuxFamily []string          `yaml:"linux_family"`
}

// Table provides lazy-loaded access to the embedded compatibility table.
// Mappings are evaluated in file order; the first matching pattern wins.
type Table struct {
	once sync.Once
	data tableFile
	err  error
}

// NewTable creates a Table that parses the embedded YAML on first access.
func NewTable() *Table {
	return &Table{}
}

// Version returns the table's data version.
func (t *Table) Version() (int, error) {
	t.once.Do(t.load)
	if t.err != nil {
		return 0, t.err
	}
	return t.data.Version, nil
}

// Tags translates a catalog-declared platform name into canonical platform
// tags. Returns nil when no pattern matches.
func (t *Table) Tags(platformName string) []string {
	t.once.Do(t.load)
	if t.err != nil {
		return nil
	}

	name := strings.ToLower(strings.TrimSpace(platformName))
	if name == "" {
		return nil
	}
	for i := range t.data.Mappings {
		if strings.Contains(name, t.data.Mappings[i].Pattern) {
			return t.data.Mappings[i].Tags
		}
	}
	return nil
}

// Successor returns the modern successor tag for a legacy console family tag.
func (t *Table) Successor(tag string) (string, bool) {
	t.once.Do(t.load)
	if t.err != nil {
		return "", false
	}
	s, ok := t.data.Successors[tag]
	return s, ok
}

// LinuxFamily returns the canonical tags covered by a Linux compatibility
// layer verdict.
func (t *Table) LinuxFamily() []string {
	t.once.Do(t.load)
	if t.err != nil {
		return nil
	}
	cp := make([]string, len(t.data.LinuxFamily))
	copy(cp, t.data.LinuxFamily)
	return cp
}

// load parses the embedded YAML table.
func (t *Table) load() {
	var f tableFile
	if err := yaml.Unmarshal(compatRawData, &f); err != nil {
		t.err = fmt.Errorf("compat: parse yaml: %w", err)
		return
	}
	for i := range f.Mappings {
		f.Mappings[i].Pattern = strings.ToLower(f.Mappings[i].Pattern)
	}
	t.data = f
}
