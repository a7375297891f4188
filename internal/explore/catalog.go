// Package explore serves trend computations over a loaded dataset: it owns
// the per-family indexes, a result cache and last-request-wins scheduling.
package explore

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/encore/internal/archive"
	"github.com/Sumatoshi-tech/encore/internal/lookup"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

// Catalog is the read-only view of one dataset shared by every request.
type Catalog struct {
	dataset   *archive.Dataset
	indexes   map[trend.Family]*trend.Index
	resolvers map[trend.Family]*lookup.Resolver
}

// Entity describes one selectable composer or work.
type Entity struct {
	Name    string `json:"name"    yaml:"name"`
	Display string `json:"display" yaml:"display"`
	Total   int    `json:"total"   yaml:"total"`
}

// NewCatalog indexes the dataset for every family.
func NewCatalog(ds *archive.Dataset) *Catalog {
	c := &Catalog{
		dataset:   ds,
		indexes:   make(map[trend.Family]*trend.Index, len(trend.Families)),
		resolvers: make(map[trend.Family]*lookup.Resolver, len(trend.Families)),
	}

	for _, family := range trend.Families {
		ix := ds.Index(family)
		c.indexes[family] = ix
		c.resolvers[family] = lookup.NewResolver(ix.Universe())
	}

	return c
}

// Dataset returns the underlying tables.
func (c *Catalog) Dataset() *archive.Dataset {
	return c.dataset
}

// Index returns the family's index.
func (c *Catalog) Index(family trend.Family) (*trend.Index, error) {
	ix, ok := c.indexes[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", trend.ErrUnknownFamily, family)
	}

	return ix, nil
}

// Resolve maps user-typed names onto canonical entity names.
func (c *Catalog) Resolve(family trend.Family, names []string) ([]string, error) {
	r, ok := c.resolvers[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", trend.ErrUnknownFamily, family)
	}

	return r.ResolveAll(names)
}

// Entities lists the family's entities alphabetically. A non-empty query
// keeps only names containing it, case-insensitively; limit <= 0 means all.
func (c *Catalog) Entities(family trend.Family, query string, limit int) ([]Entity, error) {
	ix, err := c.Index(family)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))

	var out []Entity

	for _, name := range ix.Universe() {
		if q != "" && !strings.Contains(strings.ToLower(name), q) {
			continue
		}

		out = append(out, Entity{Name: name, Display: ix.Display(name), Total: ix.Total(name)})

		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}

// Leaders returns the n most performed entities of the family.
func (c *Catalog) Leaders(family trend.Family, n int) ([]Entity, error) {
	ix, err := c.Index(family)
	if err != nil {
		return nil, err
	}

	ranked := ix.Leaders(n)
	out := make([]Entity, len(ranked))

	for i, r := range ranked {
		out[i] = Entity{Name: r.Entity, Display: ix.Display(r.Entity), Total: r.Value}
	}

	return out, nil
}
