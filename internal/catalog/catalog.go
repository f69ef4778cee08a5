// Package catalog resolves item names to their feed page hashes and groups
// items into crafting families. The mapping lives in Postgres next to the
// listing history; families fall back to config when the catalog tables are
// not populated.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tigdev/bazaarwatch/internal/collect"
	"github.com/tigdev/bazaarwatch/internal/config"
)

const selectItemsSQL = `
	SELECT item_name, feed_hash FROM catalog_items
`

const selectFamiliesSQL = `
	SELECT family_name, kernel_item, cell_item, fragment_item,
		fragment_ratio, max_kernel_quantity, min_fragment_lot
	FROM item_families
`

// Family groups a kernel with its crafting cell and fragment counterpart.
// Cell and Fragment may be empty; FragmentRatio is how many fragments make
// one kernel.
type Family struct {
	Name              string
	Kernel            string
	Cell              string
	Fragment          string
	FragmentRatio     int64
	MaxKernelQuantity int64
	MinFragmentLot    int64
}

// Validate checks the family invariants. Families arrive from two sources
// (config and the item_families table); both must pass the same rules, or a
// zero conversion ratio turns every downstream price division into garbage.
func (f Family) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("item family name is required")
	}
	if f.Kernel == "" {
		return fmt.Errorf("item family %q: kernel is required", f.Name)
	}
	if f.Fragment != "" && f.FragmentRatio < 1 {
		return fmt.Errorf("item family %q: fragment_ratio must be >= 1 when a fragment is set", f.Name)
	}
	return nil
}

// ItemKeys returns the family's non-empty item names.
func (f Family) ItemKeys() []string {
	keys := []string{f.Kernel}
	if f.Cell != "" {
		keys = append(keys, f.Cell)
	}
	if f.Fragment != "" {
		keys = append(keys, f.Fragment)
	}
	return keys
}

// Catalog is an immutable snapshot of the item mapping for one cycle.
type Catalog struct {
	hashes   map[string]string
	families []Family
}

// New builds a catalog from an explicit mapping. Used by tests and by the
// config fallback path.
func New(hashes map[string]string, families []Family) *Catalog {
	return &Catalog{hashes: hashes, families: families}
}

// Load reads the item mapping and families from the database. When the
// item_families table has no rows, fallback families from config are used.
func Load(ctx context.Context, db *pgxpool.Pool, fallback []config.FamilyConfig) (*Catalog, error) {
	hashes := make(map[string]string)

	rows, err := db.Query(ctx, selectItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("load catalog items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, hash string
		if err := rows.Scan(&name, &hash); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		hashes[name] = hash
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog items: %w", err)
	}

	families, err := loadFamilies(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(families) == 0 {
		families = FamiliesFromConfig(fallback)
	}

	return New(hashes, families), nil
}

func loadFamilies(ctx context.Context, db *pgxpool.Pool) ([]Family, error) {
	rows, err := db.Query(ctx, selectFamiliesSQL)
	if err != nil {
		return nil, fmt.Errorf("load item families: %w", err)
	}
	defer rows.Close()

	var families []Family
	for rows.Next() {
		var f Family
		if err := rows.Scan(&f.Name, &f.Kernel, &f.Cell, &f.Fragment,
			&f.FragmentRatio, &f.MaxKernelQuantity, &f.MinFragmentLot); err != nil {
			return nil, fmt.Errorf("scan item family: %w", err)
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load item families: %w", err)
	}
	return families, nil
}

// FamiliesFromConfig converts configured fallback families.
func FamiliesFromConfig(configured []config.FamilyConfig) []Family {
	families := make([]Family, len(configured))
	for i, f := range configured {
		families[i] = Family{
			Name:              f.Name,
			Kernel:            f.Kernel,
			Cell:              f.Cell,
			Fragment:          f.Fragment,
			FragmentRatio:     f.FragmentRatio,
			MaxKernelQuantity: f.MaxKernelQuantity,
			MinFragmentLot:    f.MinFragmentLot,
		}
	}
	return families
}

// Families returns the catalog's families.
func (c *Catalog) Families() []Family {
	return c.families
}

// Item resolves one item name to a collectable item.
func (c *Catalog) Item(name string) (collect.Item, bool) {
	hash, ok := c.hashes[name]
	if !ok {
		return collect.Item{}, false
	}
	return collect.Item{Key: name, FeedHash: hash}, true
}

// Resolve maps item names to collectable items, erroring on the first name
// the catalog does not know.
func (c *Catalog) Resolve(names []string) ([]collect.Item, error) {
	items := make([]collect.Item, 0, len(names))
	for _, name := range names {
		item, ok := c.Item(name)
		if !ok {
			return nil, fmt.Errorf("item %q not in catalog", name)
		}
		items = append(items, item)
	}
	return items, nil
}

// CycleItems returns the deduplicated, sorted collection set for one cycle:
// every family member plus every focus item.
func (c *Catalog) CycleItems(focus []string) ([]collect.Item, error) {
	seen := make(map[string]struct{})
	var names []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, f := range c.families {
		for _, key := range f.ItemKeys() {
			add(key)
		}
	}
	for _, name := range focus {
		add(name)
	}

	sort.Strings(names)
	return c.Resolve(names)
}
