/*
Package grain provides the core grain-marketing calculation engine.

PURPOSE:
  This package contains the types and algorithms for reconciling crop
  contracts against settlement history and aggregating the results into
  Sold / Contracted / Open positions per commodity and crop year. It is a
  pure read path: every aggregation recomputes from a snapshot of the
  underlying tables, and nothing here ever writes.

KEY CONCEPTS IN THIS FILE (types.go):
  - Contract: A forward sale agreement (bushels at a price)
  - Settlement: A delivery/payment record; one Header row per settlement
    document plus per-contract line rows
  - CropTotal / HarvestRecord: Starting-inventory sources
  - ContractStatus / FillStatus / RowKind: Closed enumerations parsed once
    at ingestion (trim + lowercase; unknown values map to an explicit
    Unrecognized variant, never a silent comparison miss)

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for every dollar amount
  2. Explicit nullability: Optional fields are pointers; presence is
     declared, never probed
  3. Graceful degradation: Missing prices, bushels, and dates are zeros
     or skipped records, never errors

SEE ALSO:
  - reconcile.go: Per-contract partial-fill remainders
  - sales.go:     Sold/Contracted/Open aggregation
  - monthly.go:   Crop-year month bucketing
  - store.go:     Read interfaces the storage layer implements
*/
package grain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STATUS ENUMERATIONS
// =============================================================================

// ContractStatus is the lifecycle status of a contract.
type ContractStatus string

const (
	StatusActive         ContractStatus = "active"
	StatusCompleted      ContractStatus = "completed"
	StatusCancelled      ContractStatus = "cancelled"
	StatusReferencedOnly ContractStatus = "referenced_only"
	StatusPendingImport  ContractStatus = "pending_import"
	StatusUnrecognized   ContractStatus = "unrecognized"
)

// ParseContractStatus normalizes a raw status string (trim + lowercase).
// Unknown values, including blank, map to StatusUnrecognized.
func ParseContractStatus(raw string) ContractStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return StatusActive
	case "completed":
		return StatusCompleted
	case "cancelled", "canceled":
		return StatusCancelled
	case "referenced only":
		return StatusReferencedOnly
	case "pending import":
		return StatusPendingImport
	default:
		return StatusUnrecognized
	}
}

// FillStatus records how much of a contract's bushels have been delivered.
type FillStatus string

const (
	FillNone         FillStatus = "none"
	FillPartial      FillStatus = "partial"
	FillFilled       FillStatus = "filled"
	FillOver         FillStatus = "over"
	FillUnrecognized FillStatus = "unrecognized"
)

// ParseFillStatus normalizes a raw fill status. Blank maps to FillNone,
// the documented column default.
func ParseFillStatus(raw string) FillStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return FillNone
	case "partial":
		return FillPartial
	case "filled":
		return FillFilled
	case "over":
		return FillOver
	default:
		return FillUnrecognized
	}
}

// RowKind distinguishes a settlement document's Header row from its
// per-contract line rows.
type RowKind string

const (
	RowHeader RowKind = "header"
	RowLine   RowKind = "line"
)

// ParseRowKind classifies a settlement status string. Anything that is not
// "Header" (case-insensitive) is a line row; the source system stores
// free-text outcomes like "Contract found" there.
func ParseRowKind(raw string) RowKind {
	if strings.EqualFold(strings.TrimSpace(raw), "header") {
		return RowHeader
	}
	return RowLine
}

// =============================================================================
// CONTRACT - Forward sale agreement
// =============================================================================

type Contract struct {
	Number    string
	Commodity string
	Bushels   int64
	Price     decimal.Decimal // per bushel; zero when the source column is null
	Basis     decimal.Decimal
	Buyer     string
	Status    ContractStatus
	Fill      FillStatus

	// Free-text-parsed dates; nil when missing or unparsable.
	DateSold      *time.Time
	DeliveryStart *time.Time
	DeliveryEnd   *time.Time
}

// FullValue is the contract's full economic value (bushels x price).
// It never changes after creation in this read path.
func (c Contract) FullValue() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(c.Bushels))
}

// =============================================================================
// SETTLEMENT - Delivery/payment record
// =============================================================================

type Settlement struct {
	SettlementID string
	Kind         RowKind
	ContractRef  string // raw contract number text; "" or "none" = open sale
	Commodity    string
	Bushels      int64
	Price        decimal.Decimal
	Bin          string
	Buyer        string
	LineNumber   int

	// Nil means the column was null. A present zero is a real amount and
	// stops the revenue fallback chain.
	GrossAmount *decimal.Decimal
	NetAmount   *decimal.Decimal
	Adjustments decimal.Decimal

	DateDelivered *time.Time
}

// ContractNumber returns the referenced contract number, or false for an
// unlinked "Open Sale" row. Matching against contracts is by string
// equality; unmatched references stay open sales rather than erroring.
func (s Settlement) ContractNumber() (string, bool) {
	ref := strings.TrimSpace(s.ContractRef)
	if ref == "" || strings.EqualFold(ref, "none") {
		return "", false
	}
	return ref, true
}

// Revenue resolves a settlement row's revenue:
// net_amount, else gross_amount, else bushels x price, else zero.
func (s Settlement) Revenue() decimal.Decimal {
	if s.NetAmount != nil {
		return *s.NetAmount
	}
	if s.GrossAmount != nil {
		return *s.GrossAmount
	}
	return s.Price.Mul(decimal.NewFromInt(s.Bushels))
}

// Gross resolves a settlement row's gross amount:
// gross_amount, else bushels x price, else zero. The monthly aggregator
// uses this instead of Revenue; the two are intentionally different.
func (s Settlement) Gross() decimal.Decimal {
	if s.GrossAmount != nil {
		return *s.GrossAmount
	}
	return s.Price.Mul(decimal.NewFromInt(s.Bushels))
}

// =============================================================================
// STARTING-INVENTORY SOURCES
// =============================================================================

// CropTotal is an aggregate bushel total keyed by (crop year, crop).
// Type "actual" entries anchor the Open calculation.
type CropTotal struct {
	CropYear       CropYear
	Crop           string
	InitialContent int64
	Type           string // "Actual" or "Estimate"; matched case-insensitively
}

// HarvestRecord is a per-field harvest entry, the fallback inventory source.
type HarvestRecord struct {
	Field        string
	CropYear     CropYear
	Crop         string
	Bushels      int64
	FinishedDate *time.Time
	Status       string // Partial / Complete; matched case-insensitively
}

// =============================================================================
// MAPPINGS AND BINS
// =============================================================================

// CommodityMapping is one alias -> canonical-name pair.
type CommodityMapping struct {
	Alias        string
	StandardName string
}

// BinName identifies a physical storage bin.
type BinName struct {
	Location string
	Name     string
	Capacity int64
}

// CropStorage records what a bin holds for a crop year.
type CropStorage struct {
	CropYear CropYear
	Location string
	BinName  string
	Crop     string
	Bushels  int64
}
