// Package catalog provides the built-in reference catalog of destinations.
// The catalog is read-only and shared by every user. Entries are split into
// a curated set (always pinned on the map) and a discoverable set (offered
// once the user picks a region or type).
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/rv-planner/internal/domain"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// DiscoverFilter narrows the discoverable set. Empty or "all" fields match
// everything, but at least one of them must be set for anything to show.
type DiscoverFilter struct {
	Region string
	Type   string
}

func (f DiscoverFilter) chosen() bool {
	return isChosen(f.Region) || isChosen(f.Type)
}

func isChosen(s string) bool {
	return s != "" && s != domain.FilterAll
}

// Provider serves catalog entries. A nil *Provider is valid and behaves as
// an empty catalog, so a catalog that failed to load never breaks a view.
type Provider struct {
	curated      []domain.CatalogEntry
	discoverable []domain.CatalogEntry
	byID         map[string]domain.CatalogEntry
}

// file is the on-disk YAML layout.
type file struct {
	Curated      []domain.CatalogEntry `yaml:"curated"`
	Discoverable []domain.CatalogEntry `yaml:"discoverable"`
}

// Default returns the catalog embedded in the binary.
func Default() (*Provider, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadFile: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML catalog. Entry IDs must be unique across both sets and
// every entry needs a name and a known type.
func Load(r io.Reader) (*Provider, error) {
	var raw file
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("catalog.Load: decode: %w", err)
	}

	p := &Provider{byID: make(map[string]domain.CatalogEntry, len(raw.Curated)+len(raw.Discoverable))}
	add := func(e domain.CatalogEntry, curated bool) error {
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			return fmt.Errorf("catalog.Load: entry %q has no id", e.Name)
		}
		if _, dup := p.byID[e.ID]; dup {
			return fmt.Errorf("catalog.Load: duplicate id %q", e.ID)
		}
		t, err := domain.ParseDestinationType(string(e.Type))
		if err != nil {
			return fmt.Errorf("catalog.Load: entry %q: %w", e.ID, err)
		}
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("catalog.Load: entry %q has no name", e.ID)
		}
		e.Type = t
		e.Curated = curated
		p.byID[e.ID] = e
		if curated {
			p.curated = append(p.curated, e)
		} else {
			p.discoverable = append(p.discoverable, e)
		}
		return nil
	}

	for _, e := range raw.Curated {
		if err := add(e, true); err != nil {
			return nil, err
		}
	}
	for _, e := range raw.Discoverable {
		if err := add(e, false); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ListCurated returns the entries that are always shown on the map.
func (p *Provider) ListCurated() []domain.CatalogEntry {
	if p == nil {
		return []domain.CatalogEntry{}
	}
	return append([]domain.CatalogEntry(nil), p.curated...)
}

// ListDiscoverable returns discoverable entries matching f.
// Nothing is returned until a region or type has been chosen.
func (p *Provider) ListDiscoverable(f DiscoverFilter) []domain.CatalogEntry {
	out := []domain.CatalogEntry{}
	if p == nil || !f.chosen() {
		return out
	}
	for _, e := range p.discoverable {
		if isChosen(f.Region) && e.Region != f.Region {
			continue
		}
		if isChosen(f.Type) && string(e.Type) != f.Type {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Get returns the entry with the given ID from either set.
func (p *Provider) Get(id string) (domain.CatalogEntry, bool) {
	if p == nil {
		return domain.CatalogEntry{}, false
	}
	e, ok := p.byID[id]
	return e, ok
}
