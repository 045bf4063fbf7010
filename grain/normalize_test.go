package grain_test

import (
	"context"
	"testing"

	"github.com/harvestline/bushel-engine/grain"
	"github.com/harvestline/bushel-engine/grain/store"
)

func TestNormalizeCommodity_Mapping(t *testing.T) {
	// GIVEN: An alias table mapping "Yellow Corn" -> "Corn"
	ctx := context.Background()
	mem := store.NewMemory()
	mem.MapCommodity("Yellow Corn", "Corn")
	mem.MapCommodity("YC", "Corn")
	n := grain.NewNormalizer(mem)

	// THEN: Aliases canonicalize, unmapped names self-map, blanks are Unknown
	cases := map[string]string{
		"Yellow Corn":    "Corn",
		"  Yellow Corn ": "Corn", // trimmed before lookup
		"Soybeans":       "Soybeans",
		"":               grain.Unknown,
		"   ":            grain.Unknown,
	}
	for raw, want := range cases {
		if got := n.Commodity(ctx, raw); got != want {
			t.Errorf("Commodity(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeCommodity_Idempotent(t *testing.T) {
	// normalize(normalize(x)) == normalize(x) for any alias table state.
	ctx := context.Background()
	mem := store.NewMemory()
	mem.MapCommodity("Yellow Corn", "Corn")
	mem.MapCommodity("Winter Wheat", "Wheat")
	n := grain.NewNormalizer(mem)

	for _, raw := range []string{"Yellow Corn", "Corn", "Winter Wheat", "Oats", "", "Unknown"} {
		once := n.Commodity(ctx, raw)
		twice := n.Commodity(ctx, once)
		if once != twice {
			t.Errorf("normalization not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestNormalizer_CacheAndInvalidate(t *testing.T) {
	// GIVEN: A normalizer that has already loaded its cache
	ctx := context.Background()
	mem := store.NewMemory()
	mem.MapCommodity("Yellow Corn", "Corn")
	n := grain.NewNormalizer(mem)

	if got := n.Commodity(ctx, "Yellow Corn"); got != "Corn" {
		t.Fatalf("warm-up lookup = %q", got)
	}

	// WHEN: The underlying table changes without invalidation
	mem.MapCommodity("Beans", "Soybeans")

	// THEN: The stale cache still self-maps the new alias
	if got := n.Commodity(ctx, "Beans"); got != "Beans" {
		t.Errorf("expected stale cache to self-map, got %q", got)
	}

	// WHEN: The cache is explicitly invalidated
	n.Invalidate()

	// THEN: The new mapping is picked up
	if got := n.Commodity(ctx, "Beans"); got != "Soybeans" {
		t.Errorf("after invalidate, Commodity(Beans) = %q, want Soybeans", got)
	}
}

func TestNormalizeVendor_CaseInsensitiveFallback(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.MapVendor("Cargill Inc", "Cargill")
	n := grain.NewNormalizer(mem)

	if got := n.Vendor(ctx, "Cargill Inc"); got != "Cargill" {
		t.Errorf("exact vendor lookup = %q", got)
	}
	// Vendor lookup falls back to case-insensitive matching.
	if got := n.Vendor(ctx, "CARGILL INC"); got != "Cargill" {
		t.Errorf("case-insensitive vendor lookup = %q", got)
	}
	if got := n.Vendor(ctx, "Local Elevator"); got != "Local Elevator" {
		t.Errorf("unmapped vendor = %q, want self-mapping", got)
	}
	if got := n.Vendor(ctx, ""); got != grain.Unknown {
		t.Errorf("blank vendor = %q, want Unknown", got)
	}
}

func TestNormalizer_Aliases(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.MapCommodity("Yellow Corn", "Corn")
	mem.MapCommodity("YC", "Corn")
	n := grain.NewNormalizer(mem)

	aliases := n.Aliases(ctx, "Corn")
	want := map[string]bool{"Yellow Corn": true, "YC": true, "Corn": true}
	if len(aliases) != len(want) {
		t.Fatalf("Aliases(Corn) = %v, want %v", aliases, want)
	}
	for _, a := range aliases {
		if !want[a] {
			t.Errorf("unexpected alias %q", a)
		}
	}
}
