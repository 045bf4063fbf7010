package grain

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONTHLY DELIVERY AGGREGATOR
// =============================================================================

// MonthlyBucket is one (crop, month) slot of the delivery trend data.
type MonthlyBucket struct {
	Bushels int64
	Gross   decimal.Decimal
	Price   decimal.Decimal // Gross / Bushels, computed after accumulation
}

// MonthlyDeliveries time-buckets deliveries and outstanding contracts into
// crop-year month slots (October = 1 ... September = 12), keyed by
// canonical commodity then month index.
//
// Settlement rows accumulate bushels and gross amount (gross resolution,
// not the Sold net-amount rule). Contracts with fill "None" contribute
// their full bushels and value at their delivery-start month; "Partial"
// contributes the reconciler's remainder clamped at zero on each axis
// independently.
//
// Buckets with zero bushels are dropped after price reconstruction, and a
// commodity with no surviving buckets is omitted.
func (e *Engine) MonthlyDeliveries(ctx context.Context, year CropYear) (map[string]map[int]MonthlyBucket, error) {
	settlements, err := e.Store.Settlements(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settlements: %w", err)
	}
	contracts, err := e.Store.Contracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading contracts: %w", err)
	}

	index := NewSettlementIndex(settlements)
	settlementsInYear := filterSettlements(settlements, year)
	contractsInYear := filterContracts(contracts, year)
	crops := e.cropsPresent(ctx, settlementsInYear, contractsInYear)

	results := make(map[string]map[int]MonthlyBucket)
	for crop := range crops {
		if crop == Unknown {
			continue
		}

		type accum struct {
			bushels int64
			gross   decimal.Decimal
		}
		months := make(map[int]*accum)
		slot := func(month int) *accum {
			a, ok := months[month]
			if !ok {
				a = &accum{gross: decimal.Zero}
				months[month] = a
			}
			return a
		}

		for _, s := range settlementsInYear {
			if e.Normalizer.Commodity(ctx, s.Commodity) != crop {
				continue
			}
			month, ok := year.MonthIndex(s.DateDelivered)
			if !ok {
				continue
			}
			a := slot(month)
			a.bushels += s.Bushels
			a.gross = a.gross.Add(s.Gross())
		}

		for _, c := range contractsInYear {
			if c.Fill != FillNone && c.Fill != FillPartial {
				continue
			}
			if e.Normalizer.Commodity(ctx, c.Commodity) != crop {
				continue
			}
			month, ok := year.MonthIndex(c.DeliveryStart)
			if !ok {
				continue
			}

			var bushels int64
			revenue := decimal.Zero
			switch c.Fill {
			case FillNone:
				bushels = c.Bushels
				revenue = c.FullValue()
			case FillPartial:
				remRevenue, remBushels := index.Remaining(c)
				if remBushels > 0 {
					bushels = remBushels
				}
				if remRevenue.IsPositive() {
					revenue = remRevenue
				}
			}
			if bushels <= 0 && !revenue.IsPositive() {
				continue
			}
			a := slot(month)
			a.bushels += bushels
			a.gross = a.gross.Add(revenue)
		}

		buckets := make(map[int]MonthlyBucket)
		for month, a := range months {
			if a.bushels <= 0 {
				continue
			}
			buckets[month] = MonthlyBucket{
				Bushels: a.bushels,
				Gross:   a.gross,
				Price:   a.gross.Div(decimal.NewFromInt(a.bushels)),
			}
		}
		if len(buckets) > 0 {
			results[crop] = buckets
		}
	}
	return results, nil
}
