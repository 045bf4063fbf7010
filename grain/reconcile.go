package grain

import "github.com/shopspring/decimal"

// =============================================================================
// PARTIAL-FILL RECONCILER
// =============================================================================

// SettlementIndex groups settlement rows by referenced contract number.
// Built once per aggregation call so per-contract remainders are a map
// lookup instead of a full settlement scan.
type SettlementIndex map[string][]Settlement

// NewSettlementIndex indexes the full settlement history. Open-sale rows
// (no contract reference) are not indexed; they never reconcile against a
// contract.
func NewSettlementIndex(settlements []Settlement) SettlementIndex {
	idx := make(SettlementIndex)
	for _, s := range settlements {
		number, ok := s.ContractNumber()
		if !ok {
			continue
		}
		idx[number] = append(idx[number], s)
	}
	return idx
}

// ForContract returns every settlement row referencing a contract number.
func (idx SettlementIndex) ForContract(number string) []Settlement {
	return idx[number]
}

// Remaining computes the revenue and bushels still open on a contract:
// the contract's full value minus everything already settled against it.
//
// Every matching row counts here, Header and line rows both. This is
// deliberately a different subset than the Sold aggregation, which counts
// Header rows only; the per-contract remainder needs the itemized lines.
//
// The result is signed: an over-delivered contract (fill status "Over")
// goes negative. Callers clamp where a non-negative quantity is required.
func (idx SettlementIndex) Remaining(c Contract) (decimal.Decimal, int64) {
	revenue := c.FullValue()
	bushels := c.Bushels
	for _, s := range idx[c.Number] {
		revenue = revenue.Sub(s.Revenue())
		bushels -= s.Bushels
	}
	return revenue, bushels
}
