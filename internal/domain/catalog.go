package domain

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is the curated, versioned station configuration. It is loaded once
// at startup and treated as read-only afterwards.
type Catalog struct {
	Version      string             `yaml:"version"`
	Stations     []CanonicalStation `yaml:"stations"`
	ZoneStations []ZoneStation      `yaml:"zone_stations"`

	index *AliasIndex
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalog reads a catalog file, or the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog and builds its alias index.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", ErrCatalog, err)
	}
	if err := c.validateZoneStations(); err != nil {
		return nil, err
	}
	idx, err := NewAliasIndex(c.Stations)
	if err != nil {
		return nil, err
	}
	c.index = idx
	return &c, nil
}

// Index returns the alias index built from the catalog stations.
func (c *Catalog) Index() *AliasIndex {
	return c.index
}

// ZoneCatalog returns a copy of the zone stations in catalog order.
func (c *Catalog) ZoneCatalog() []ZoneStation {
	out := make([]ZoneStation, len(c.ZoneStations))
	copy(out, c.ZoneStations)
	return out
}

// ZoneStation looks up a zone station by BMKG code.
func (c *Catalog) ZoneStation(code string) (ZoneStation, bool) {
	for _, st := range c.ZoneStations {
		if st.Code == code {
			return st, true
		}
	}
	return ZoneStation{}, false
}

func (c *Catalog) validateZoneStations() error {
	codes := make(map[string]string, len(c.ZoneStations))
	for i, st := range c.ZoneStations {
		if strings.TrimSpace(st.Name) == "" {
			return fmt.Errorf("%w: zone station %d has no name", ErrCatalog, i)
		}
		if strings.TrimSpace(st.Code) == "" {
			return fmt.Errorf("%w: zone station %q has no code", ErrCatalog, st.Name)
		}
		if other, dup := codes[st.Code]; dup {
			return fmt.Errorf("%w: code %q used by %q and %q", ErrCatalog, st.Code, other, st.Name)
		}
		codes[st.Code] = st.Name
	}
	return nil
}
