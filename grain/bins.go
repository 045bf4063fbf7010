package grain

import (
	"context"
	"fmt"
)

// =============================================================================
// BIN STORAGE GROUPING
// =============================================================================

// BinAssignment pairs a physical bin with what it holds for a crop year.
type BinAssignment struct {
	Bin     BinName
	Storage CropStorage
}

// BinsByCrop joins bin names against crop-year storage records on
// (location, bin name) and groups the result by crop. Bins with no storage
// record for the year are left out.
func BinsByCrop(ctx context.Context, store BinStore, year CropYear) (map[string][]BinAssignment, error) {
	bins, err := store.BinNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading bin names: %w", err)
	}
	storage, err := store.CropStorage(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("loading crop storage: %w", err)
	}

	type binKey struct {
		location string
		name     string
	}
	lookup := make(map[binKey]CropStorage, len(storage))
	for _, cs := range storage {
		lookup[binKey{cs.Location, cs.BinName}] = cs
	}

	grouped := make(map[string][]BinAssignment)
	for _, b := range bins {
		cs, ok := lookup[binKey{b.Location, b.Name}]
		if !ok {
			continue
		}
		grouped[cs.Crop] = append(grouped[cs.Crop], BinAssignment{Bin: b, Storage: cs})
	}
	return grouped, nil
}
