/*
sales.go - Crop-year Sold/Contracted/Open aggregation (the core engine)

PURPOSE:
  For a crop year, classifies every contract and settlement into per-crop
  Sold, Contracted, and Open buckets:

  Sold:       Settlement Header rows delivered in the crop-year window.
              Line rows are excluded; they re-state the Header's totals
              per contract and would double count.
  Contracted: Active contracts starting delivery in the window that are
              not yet filled. Fill "None" contributes the full contract;
              "Partial" contributes the reconciler's remainder (signed).
              "Filled"/"Over" are excluded entirely.
  Open:       max(0, starting inventory - sold - contracted). Open revenue
              depends on an externally supplied price and is not computed
              here.

COMPUTATION MODEL:
  Request-scoped and synchronous. Every call re-reads the full tables and
  recomputes from scratch; the only shared state is the normalizer's alias
  cache. O(contracts + settlements) per call thanks to the settlement
  index - fine at single-farm bookkeeping scale.
*/
package grain

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes crop-year reports over a ReadStore snapshot.
type Engine struct {
	Store      ReadStore
	Normalizer *Normalizer
}

func NewEngine(store ReadStore) *Engine {
	return &Engine{
		Store:      store,
		Normalizer: NewNormalizer(store),
	}
}

// SalesSummary is one crop's position for a crop year.
type SalesSummary struct {
	SoldBushels       int64
	SoldRevenue       decimal.Decimal
	ContractedBushels int64
	ContractedRevenue decimal.Decimal
	OpenBushels       int64
}

// CropYearSales aggregates every contract and settlement for a crop year
// into Sold/Contracted/Open buckets keyed by canonical commodity.
//
// A commodity with no records in the window is omitted entirely, and the
// "Unknown" normalization fallback is always excluded. Pure function of
// the snapshot: identical data yields identical results.
func (e *Engine) CropYearSales(ctx context.Context, year CropYear) (map[string]SalesSummary, error) {
	settlements, err := e.Store.Settlements(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settlements: %w", err)
	}
	contracts, err := e.Store.Contracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading contracts: %w", err)
	}

	// Partial-fill remainders reconcile against the FULL settlement
	// history, not just the crop-year window.
	index := NewSettlementIndex(settlements)

	settlementsInYear := filterSettlements(settlements, year)
	contractsInYear := filterContracts(contracts, year)
	crops := e.cropsPresent(ctx, settlementsInYear, contractsInYear)

	results := make(map[string]SalesSummary, len(crops))
	for crop := range crops {
		if crop == Unknown {
			continue
		}

		var summary SalesSummary
		summary.SoldRevenue = decimal.Zero
		summary.ContractedRevenue = decimal.Zero

		// Sold: Header rows only.
		for _, s := range settlementsInYear {
			if s.Kind != RowHeader {
				continue
			}
			if e.Normalizer.Commodity(ctx, s.Commodity) != crop {
				continue
			}
			summary.SoldBushels += s.Bushels
			summary.SoldRevenue = summary.SoldRevenue.Add(s.Revenue())
		}

		// Contracted: active, unfilled contracts.
		for _, c := range contractsInYear {
			if c.Status != StatusActive {
				continue
			}
			if e.Normalizer.Commodity(ctx, c.Commodity) != crop {
				continue
			}
			switch c.Fill {
			case FillNone:
				summary.ContractedBushels += c.Bushels
				summary.ContractedRevenue = summary.ContractedRevenue.Add(c.FullValue())
			case FillPartial:
				remRevenue, remBushels := index.Remaining(c)
				summary.ContractedBushels += remBushels
				summary.ContractedRevenue = summary.ContractedRevenue.Add(remRevenue)
			}
			// Filled and Over contribute nothing.
		}

		// Open: floored at zero.
		starting, err := StartingBushels(ctx, e.Store, year, crop)
		if err != nil {
			return nil, fmt.Errorf("resolving starting bushels for %s: %w", crop, err)
		}
		open := starting - summary.SoldBushels - summary.ContractedBushels
		if open < 0 {
			open = 0
		}
		summary.OpenBushels = open

		results[crop] = summary
	}
	return results, nil
}

// cropsPresent collects the canonical commodities appearing in either table
// within the crop-year window. Blank raw commodities are skipped before
// normalization, so they never surface as Unknown rows.
func (e *Engine) cropsPresent(ctx context.Context, settlements []Settlement, contracts []Contract) map[string]bool {
	crops := make(map[string]bool)
	for _, s := range settlements {
		if s.Commodity != "" {
			crops[e.Normalizer.Commodity(ctx, s.Commodity)] = true
		}
	}
	for _, c := range contracts {
		if c.Commodity != "" {
			crops[e.Normalizer.Commodity(ctx, c.Commodity)] = true
		}
	}
	return crops
}

// filterSettlements keeps rows delivered inside the crop year. Rows with a
// missing or unparsable delivery date are skipped, never an error.
func filterSettlements(settlements []Settlement, year CropYear) []Settlement {
	var in []Settlement
	for _, s := range settlements {
		if year.Contains(s.DateDelivered) {
			in = append(in, s)
		}
	}
	return in
}

// filterContracts keeps contracts whose delivery window starts inside the
// crop year.
func filterContracts(contracts []Contract, year CropYear) []Contract {
	var in []Contract
	for _, c := range contracts {
		if year.Contains(c.DeliveryStart) {
			in = append(in, c)
		}
	}
	return in
}
