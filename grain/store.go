/*
store.go - Read interfaces between the engine and storage

PURPOSE:
  Defines the snapshot-read boundary of the calculation engine. Any backend
  that can answer "give me all records" plus simple equality filters can
  drive the engine: SQLite in production, the memory store in tests.

READ-ONLY CONTRACT:
  The engine never writes. There are no Save methods on these interfaces;
  fixture/import writes live on the concrete sqlite store only.

IMPLEMENTATIONS:
  - store/sqlite:       Production SQLite database
  - grain/store.Memory: In-memory snapshot for tests and dev

SEE ALSO:
  - sales.go:     Engine entry points consuming ReadStore
  - inventory.go: Starting-bushel resolution over InventorySource
*/
package grain

import "context"

// =============================================================================
// READ INTERFACES
// =============================================================================

// MappingSource supplies alias -> canonical-name tables for normalization.
type MappingSource interface {
	// CommodityMappings returns the full commodity alias table.
	CommodityMappings(ctx context.Context) (map[string]string, error)

	// VendorMappings returns the vendor alias table. Backends where the
	// table does not exist return an empty map, not an error.
	VendorMappings(ctx context.Context) (map[string]string, error)
}

// InventorySource supplies starting-inventory records for a crop year.
type InventorySource interface {
	// CropTotals returns aggregate totals for (crop year, crop), all types.
	CropTotals(ctx context.Context, year CropYear, crop string) ([]CropTotal, error)

	// HarvestRecords returns per-field harvest entries for (crop year, crop).
	HarvestRecords(ctx context.Context, year CropYear, crop string) ([]HarvestRecord, error)
}

// ReadStore is the full snapshot the engine aggregates over.
type ReadStore interface {
	Contracts(ctx context.Context) ([]Contract, error)
	Settlements(ctx context.Context) ([]Settlement, error)

	MappingSource
	InventorySource
}

// BinStore supplies storage-bin records. Separate from ReadStore because
// the bin tables are optional in older databases.
type BinStore interface {
	BinNames(ctx context.Context) ([]BinName, error)
	CropStorage(ctx context.Context, year CropYear) ([]CropStorage, error)
}
