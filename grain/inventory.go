package grain

import (
	"context"
	"strings"
)

// =============================================================================
// STARTING-INVENTORY RESOLVER
// =============================================================================

// harvestStatuses that count toward the starting-bushel fallback.
var harvestStatuses = map[string]bool{
	"partial":  true,
	"partials": true,
	"complete": true,
}

// StartingBushels resolves the baseline bushel count for a crop and crop
// year, the anchor for the Open calculation.
//
// Lookup order:
//  1. A crop_totals record with type "actual" short-circuits with its
//     initial content. No blending with the fallback.
//  2. Otherwise the sum of harvest records with status partial/partials/
//     complete (case-insensitive).
//  3. Otherwise zero. Absence is not an error.
func StartingBushels(ctx context.Context, src InventorySource, year CropYear, crop string) (int64, error) {
	totals, err := src.CropTotals(ctx, year, crop)
	if err != nil {
		return 0, err
	}
	for _, t := range totals {
		if strings.EqualFold(t.Type, "actual") {
			return t.InitialContent, nil
		}
	}

	records, err := src.HarvestRecords(ctx, year, crop)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, h := range records {
		if harvestStatuses[strings.ToLower(strings.TrimSpace(h.Status))] {
			sum += h.Bushels
		}
	}
	return sum, nil
}
