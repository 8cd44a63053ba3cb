package metadata

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog embed.FS

// Catalog is a static picklist lookup keyed by apiName. It backs PICKLIST and
// MULTIPICKLIST fields whose describe payload carries no options of its own.
type Catalog struct {
	entries map[string][]string
}

// NewCatalog builds a catalog from an explicit apiName -> options table.
// Option slices are copied so callers cannot mutate catalog state later.
func NewCatalog(entries map[string][]string) *Catalog {
	out := make(map[string][]string, len(entries))
	for name, options := range entries {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out[name] = append([]string(nil), options...)
	}
	return &Catalog{entries: out}
}

// ParseCatalog decodes a YAML document of the form `apiName: [option, ...]`.
func ParseCatalog(raw []byte) (*Catalog, error) {
	entries := map[string][]string{}
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("metadata: parse catalog: %w", err)
	}
	return NewCatalog(entries), nil
}

// Lookup returns the static options for apiName, or ok=false when the catalog
// has no entry.
func (c *Catalog) Lookup(apiName string) ([]string, bool) {
	if c == nil || len(c.entries) == 0 {
		return nil, false
	}
	options, ok := c.entries[apiName]
	if !ok || len(options) == 0 {
		return nil, false
	}
	return append([]string(nil), options...), true
}

// Names returns the sorted apiNames the catalog knows about.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the embedded picklist catalog. The embedded document
// is compiled in, so a parse failure here is a programming error and yields an
// empty catalog rather than a panic.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		raw, err := fs.ReadFile(embeddedCatalog, "catalog.yaml")
		if err != nil {
			defaultCatalog = NewCatalog(nil)
			return
		}
		catalog, err := ParseCatalog(raw)
		if err != nil {
			defaultCatalog = NewCatalog(nil)
			return
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}
