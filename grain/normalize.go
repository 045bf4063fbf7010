package grain

import (
	"context"
	"strings"
	"sync"
)

// Unknown is the canonical name for a blank or missing commodity/vendor.
// Aggregators always exclude it from results.
const Unknown = "Unknown"

// =============================================================================
// NORMALIZER - Alias -> canonical-name canonicalization with explicit cache
// =============================================================================

// Normalizer maps raw free-text commodity and vendor names to canonical
// names via the mapping tables. Mappings load lazily on first use and are
// cached for the process lifetime; Invalidate drops the cache if the
// underlying tables change mid-process.
//
// The cache is owned by the Normalizer, not a package global, so lifetime
// is explicit and injectable for testing. Guarded for multi-threaded hosts.
type Normalizer struct {
	source MappingSource

	mu          sync.RWMutex
	commodities map[string]string
	vendors     map[string]string
}

func NewNormalizer(source MappingSource) *Normalizer {
	return &Normalizer{source: source}
}

// Commodity canonicalizes a raw commodity name. Blank input returns
// Unknown; an unmapped name returns itself trimmed (self-mapping).
// Never fails: a mapping-table read error degrades to self-mapping.
func (n *Normalizer) Commodity(ctx context.Context, raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return Unknown
	}
	mappings := n.commodityMappings(ctx)
	if canonical, ok := mappings[name]; ok {
		return canonical
	}
	return name
}

// Vendor canonicalizes a raw vendor/buyer name. Lookup is exact first,
// then case-insensitive; an unmapped name returns itself trimmed.
func (n *Normalizer) Vendor(ctx context.Context, raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return Unknown
	}
	mappings := n.vendorMappings(ctx)
	if canonical, ok := mappings[name]; ok {
		return canonical
	}
	for alias, canonical := range mappings {
		if strings.EqualFold(alias, name) {
			return canonical
		}
	}
	return name
}

// Aliases returns every alias that maps to a canonical commodity name,
// including the canonical name itself. Useful for filtering raw records
// by normalized commodity.
func (n *Normalizer) Aliases(ctx context.Context, canonical string) []string {
	mappings := n.commodityMappings(ctx)
	var aliases []string
	for alias, std := range mappings {
		if std == canonical {
			aliases = append(aliases, alias)
		}
	}
	for _, a := range aliases {
		if a == canonical {
			return aliases
		}
	}
	return append(aliases, canonical)
}

// Invalidate drops the cached mappings. The next lookup reloads from the
// source. Call after the mapping tables change.
func (n *Normalizer) Invalidate() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.commodities = nil
	n.vendors = nil
}

func (n *Normalizer) commodityMappings(ctx context.Context) map[string]string {
	n.mu.RLock()
	cached := n.commodities
	n.mu.RUnlock()
	if cached != nil {
		return cached
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.commodities == nil {
		m, err := n.source.CommodityMappings(ctx)
		if err != nil || m == nil {
			m = map[string]string{}
		}
		n.commodities = m
	}
	return n.commodities
}

func (n *Normalizer) vendorMappings(ctx context.Context) map[string]string {
	n.mu.RLock()
	cached := n.vendors
	n.mu.RUnlock()
	if cached != nil {
		return cached
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.vendors == nil {
		m, err := n.source.VendorMappings(ctx)
		if err != nil || m == nil {
			m = map[string]string{}
		}
		n.vendors = m
	}
	return n.vendors
}
