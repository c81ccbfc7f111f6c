package models

import "sort"

// ProductEntry holds the supplier cost and the selling price for one item (品項)
type ProductEntry struct {
	Name  string  `json:"name"`
	Cost  float64 `json:"cost"`  // 進價
	Price float64 `json:"price"` // 售價
}

// Catalog maps item names to their cost/price entries. It is loaded once per
// settlement run and treated as a read-only snapshot.
type Catalog map[string]ProductEntry

// Lookup returns the entry for an item. Unknown items yield a zero-valued
// entry ({cost: 0, price: 0}) rather than an error; the normalizer excludes
// such records anyway because they fail the whitelist check.
func (c Catalog) Lookup(item string) ProductEntry {
	if entry, ok := c[item]; ok {
		return entry
	}
	return ProductEntry{Name: item}
}

// Has reports whether the item is a known catalog member.
func (c Catalog) Has(item string) bool {
	_, ok := c[item]
	return ok
}

// Names returns all known item names in lexical order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
