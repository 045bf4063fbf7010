/*
Package sqlite provides the SQLite-backed implementation of the grain read
interfaces.

PURPOSE:
  Implements grain.ReadStore and grain.BinStore over the farm bookkeeping
  database. The engine is a pure read path; the Save helpers exist only for
  fixtures and imports (the contract/settlement scanner that populates the
  database lives in a separate system).

KEY TABLES:
  contracts:            Forward sale agreements
  settlements:          Delivery/payment rows (Header + line rows)
  commodity_mappings:   Alias -> canonical commodity names
  vendor_normalization: Alias -> canonical vendor names (optional table)
  crop_totals:          Aggregate starting-inventory totals
  harvest_actual:       Per-field harvest entries (inventory fallback)
  bin_names:            Physical storage bins (optional table)
  crop_storage:         Bin contents per crop year (optional table)

OPTIONAL TABLES:
  Older databases predate vendor_normalization and the bin tables. Reads
  against a missing table degrade to empty results instead of erroring,
  matching how the reports behave against legacy files.

DATES:
  Stored as free text by the upstream scanner. Parsed on read with
  grain.ParseDate; unparsable dates scan as nil and the engine skips those
  records from date-filtered aggregations.

WAL MODE:
  Opened with WAL so report reads don't block the upstream importer.
  NewReadOnly opens an externally maintained database without migrating.

SEE ALSO:
  - grain/store.go: Interface definitions
  - grain/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/harvestline/bushel-engine/grain"
)

// Store implements the grain read interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time interface checks.
var (
	_ grain.ReadStore = (*Store)(nil)
	_ grain.BinStore  = (*Store)(nil)
)

// New opens (creating if needed) a database at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// NewReadOnly opens an externally maintained database without migrating.
// This is the production path: the reports never own the schema.
func NewReadOnly(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema for fixture/import databases.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS contracts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contract_number TEXT NOT NULL UNIQUE,
		commodity TEXT,
		bushels INTEGER,
		price REAL,
		basis REAL,
		buyer_name TEXT,
		status TEXT DEFAULT 'Active',
		fill_status TEXT DEFAULT 'None',
		date_sold TEXT,
		delivery_start TEXT,
		delivery_end TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_number
		ON contracts(contract_number);
	CREATE INDEX IF NOT EXISTS idx_contracts_status
		ON contracts(status);
	CREATE INDEX IF NOT EXISTS idx_contracts_delivery_start
		ON contracts(delivery_start);

	CREATE TABLE IF NOT EXISTS settlements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		settlement_id TEXT,
		status TEXT,
		contract_id TEXT,
		commodity TEXT,
		bushels INTEGER,
		price REAL,
		gross_amount REAL,
		net_amount REAL,
		adjustments REAL,
		date_delivered TEXT,
		buyer TEXT,
		bin TEXT,
		line_number INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_settlements_settlement_id
		ON settlements(settlement_id);
	-- Hot path: reconciling settlements against a contract number
	CREATE INDEX IF NOT EXISTS idx_settlements_contract_id
		ON settlements(contract_id);
	CREATE INDEX IF NOT EXISTS idx_settlements_date_delivered
		ON settlements(date_delivered);

	CREATE TABLE IF NOT EXISTS commodity_mappings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		alias TEXT NOT NULL UNIQUE,
		standard_name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS vendor_normalization (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		alias TEXT NOT NULL UNIQUE,
		standard_name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS crop_totals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		crop_year INTEGER NOT NULL,
		crop TEXT NOT NULL,
		initial_content INTEGER NOT NULL DEFAULT 0,
		type TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_crop_totals_year_crop
		ON crop_totals(crop_year, crop);

	CREATE TABLE IF NOT EXISTS harvest_actual (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		field TEXT NOT NULL,
		crop_year INTEGER NOT NULL,
		crop TEXT NOT NULL,
		bushels INTEGER NOT NULL DEFAULT 0,
		finished_date TEXT,
		status TEXT NOT NULL DEFAULT 'Partial'
	);

	CREATE INDEX IF NOT EXISTS idx_harvest_year_crop
		ON harvest_actual(crop_year, crop);

	CREATE TABLE IF NOT EXISTS bin_names (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		location TEXT NOT NULL,
		bin_name TEXT NOT NULL,
		capacity_bushels INTEGER DEFAULT 0,
		UNIQUE(location, bin_name)
	);

	CREATE TABLE IF NOT EXISTS crop_storage (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		crop_year INTEGER NOT NULL,
		location TEXT NOT NULL,
		bin_name TEXT NOT NULL,
		crop TEXT NOT NULL,
		bushels INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_crop_storage_year
		ON crop_storage(crop_year);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CONTRACTS
// =============================================================================

const contractColumns = `contract_number, commodity, bushels, price, basis,
	buyer_name, status, fill_status, date_sold, delivery_start, delivery_end`

// Contracts returns every contract.
func (s *Store) Contracts(ctx context.Context) ([]grain.Contract, error) {
	return s.queryContracts(ctx, fmt.Sprintf("SELECT %s FROM contracts", contractColumns))
}

// ContractByNumber returns a contract by its number, or nil if absent.
func (s *Store) ContractByNumber(ctx context.Context, number string) (*grain.Contract, error) {
	contracts, err := s.queryContracts(ctx,
		fmt.Sprintf("SELECT %s FROM contracts WHERE contract_number = ?", contractColumns), number)
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return nil, nil
	}
	return &contracts[0], nil
}

// ContractsByStatus returns contracts with a lifecycle status.
// Filtering happens after enum parsing so legacy spellings in the column
// ("cancelled" vs "Cancelled") still match.
func (s *Store) ContractsByStatus(ctx context.Context, status grain.ContractStatus) ([]grain.Contract, error) {
	contracts, err := s.Contracts(ctx)
	if err != nil {
		return nil, err
	}
	var out []grain.Contract
	for _, c := range contracts {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

// ActiveContracts returns contracts with status Active.
func (s *Store) ActiveContracts(ctx context.Context) ([]grain.Contract, error) {
	return s.ContractsByStatus(ctx, grain.StatusActive)
}

// ContractsByFillStatus returns contracts with a fill status.
func (s *Store) ContractsByFillStatus(ctx context.Context, fill grain.FillStatus) ([]grain.Contract, error) {
	contracts, err := s.Contracts(ctx)
	if err != nil {
		return nil, err
	}
	var out []grain.Contract
	for _, c := range contracts {
		if c.Fill == fill {
			out = append(out, c)
		}
	}
	return out, nil
}

// ContractsByCommodity returns contracts whose raw commodity matches.
func (s *Store) ContractsByCommodity(ctx context.Context, commodity string) ([]grain.Contract, error) {
	return s.queryContracts(ctx,
		fmt.Sprintf("SELECT %s FROM contracts WHERE commodity = ?", contractColumns), commodity)
}

// ContractsSoldBetween returns contracts by date_sold range. Either bound
// may be nil. Contracts without a sold date are excluded.
func (s *Store) ContractsSoldBetween(ctx context.Context, from, to *time.Time) ([]grain.Contract, error) {
	contracts, err := s.Contracts(ctx)
	if err != nil {
		return nil, err
	}
	var out []grain.Contract
	for _, c := range contracts {
		if c.DateSold == nil {
			continue
		}
		if from != nil && c.DateSold.Before(*from) {
			continue
		}
		if to != nil && c.DateSold.After(*to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) queryContracts(ctx context.Context, query string, args ...any) ([]grain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying contracts: %w", err)
	}
	defer rows.Close()

	var contracts []grain.Contract
	for rows.Next() {
		var (
			number        string
			commodity     sql.NullString
			bushels       sql.NullInt64
			price         sql.NullFloat64
			basis         sql.NullFloat64
			buyer         sql.NullString
			status        sql.NullString
			fill          sql.NullString
			dateSold      sql.NullString
			deliveryStart sql.NullString
			deliveryEnd   sql.NullString
		)
		if err := rows.Scan(&number, &commodity, &bushels, &price, &basis,
			&buyer, &status, &fill, &dateSold, &deliveryStart, &deliveryEnd); err != nil {
			return nil, fmt.Errorf("scanning contract: %w", err)
		}
		contracts = append(contracts, grain.Contract{
			Number:        number,
			Commodity:     commodity.String,
			Bushels:       bushels.Int64,
			Price:         decimalFrom(price),
			Basis:         decimalFrom(basis),
			Buyer:         buyer.String,
			Status:        grain.ParseContractStatus(status.String),
			Fill:          grain.ParseFillStatus(fill.String),
			DateSold:      grain.ParseDate(dateSold.String),
			DeliveryStart: grain.ParseDate(deliveryStart.String),
			DeliveryEnd:   grain.ParseDate(deliveryEnd.String),
		})
	}
	return contracts, rows.Err()
}

// SaveContract inserts or replaces a contract. Fixture/import use only.
func (s *Store) SaveContract(ctx context.Context, c grain.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO contracts
			(contract_number, commodity, bushels, price, basis, buyer_name,
			 status, fill_status, date_sold, delivery_start, delivery_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Number, c.Commodity, c.Bushels, decimalArg(c.Price), decimalArg(c.Basis),
		c.Buyer, statusText(c.Status), fillText(c.Fill),
		dateArg(c.DateSold), dateArg(c.DeliveryStart), dateArg(c.DeliveryEnd))
	if err != nil {
		return fmt.Errorf("saving contract %s: %w", c.Number, err)
	}
	return nil
}

// =============================================================================
// SETTLEMENTS
// =============================================================================

const settlementColumns = `settlement_id, status, contract_id, commodity,
	bushels, price, gross_amount, net_amount, adjustments, date_delivered,
	buyer, bin, line_number`

// Settlements returns every settlement row.
func (s *Store) Settlements(ctx context.Context) ([]grain.Settlement, error) {
	return s.querySettlements(ctx, fmt.Sprintf("SELECT %s FROM settlements", settlementColumns))
}

// SettlementRowsByID returns all rows from one settlement document.
func (s *Store) SettlementRowsByID(ctx context.Context, settlementID string) ([]grain.Settlement, error) {
	return s.querySettlements(ctx,
		fmt.Sprintf("SELECT %s FROM settlements WHERE settlement_id = ? ORDER BY line_number", settlementColumns),
		settlementID)
}

// SettlementsByContract returns all rows referencing a contract number.
func (s *Store) SettlementsByContract(ctx context.Context, contractNumber string) ([]grain.Settlement, error) {
	return s.querySettlements(ctx,
		fmt.Sprintf("SELECT %s FROM settlements WHERE contract_id = ?", settlementColumns),
		contractNumber)
}

// SettlementsDeliveredBetween returns rows by date_delivered range. Either
// bound may be nil. Rows without a parsable delivery date are excluded.
func (s *Store) SettlementsDeliveredBetween(ctx context.Context, from, to *time.Time) ([]grain.Settlement, error) {
	settlements, err := s.Settlements(ctx)
	if err != nil {
		return nil, err
	}
	var out []grain.Settlement
	for _, row := range settlements {
		if row.DateDelivered == nil {
			continue
		}
		if from != nil && row.DateDelivered.Before(*from) {
			continue
		}
		if to != nil && row.DateDelivered.After(*to) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// UniqueSettlementIDs returns the distinct settlement document IDs.
func (s *Store) UniqueSettlementIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT settlement_id FROM settlements WHERE settlement_id IS NOT NULL AND settlement_id != '' ORDER BY settlement_id")
	if err != nil {
		return nil, fmt.Errorf("querying settlement ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) querySettlements(ctx context.Context, query string, args ...any) ([]grain.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying settlements: %w", err)
	}
	defer rows.Close()

	var settlements []grain.Settlement
	for rows.Next() {
		var (
			settlementID sql.NullString
			status       sql.NullString
			contractRef  sql.NullString
			commodity    sql.NullString
			bushels      sql.NullInt64
			price        sql.NullFloat64
			gross        sql.NullFloat64
			net          sql.NullFloat64
			adjustments  sql.NullFloat64
			delivered    sql.NullString
			buyer        sql.NullString
			bin          sql.NullString
			lineNumber   sql.NullInt64
		)
		if err := rows.Scan(&settlementID, &status, &contractRef, &commodity,
			&bushels, &price, &gross, &net, &adjustments, &delivered,
			&buyer, &bin, &lineNumber); err != nil {
			return nil, fmt.Errorf("scanning settlement: %w", err)
		}
		settlements = append(settlements, grain.Settlement{
			SettlementID:  settlementID.String,
			Kind:          grain.ParseRowKind(status.String),
			ContractRef:   contractRef.String,
			Commodity:     commodity.String,
			Bushels:       bushels.Int64,
			Price:         decimalFrom(price),
			GrossAmount:   decimalPtrFrom(gross),
			NetAmount:     decimalPtrFrom(net),
			Adjustments:   decimalFrom(adjustments),
			DateDelivered: grain.ParseDate(delivered.String),
			Buyer:         buyer.String,
			Bin:           bin.String,
			LineNumber:    int(lineNumber.Int64),
		})
	}
	return settlements, rows.Err()
}

// SaveSettlement inserts a settlement row. Fixture/import use only.
func (s *Store) SaveSettlement(ctx context.Context, row grain.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := "Line"
	if row.Kind == grain.RowHeader {
		status = "Header"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settlements
			(settlement_id, status, contract_id, commodity, bushels, price,
			 gross_amount, net_amount, adjustments, date_delivered, buyer,
			 bin, line_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.SettlementID, status, row.ContractRef, row.Commodity, row.Bushels,
		decimalArg(row.Price), decimalPtrArg(row.GrossAmount), decimalPtrArg(row.NetAmount),
		decimalArg(row.Adjustments), dateArg(row.DateDelivered), row.Buyer,
		row.Bin, row.LineNumber)
	if err != nil {
		return fmt.Errorf("saving settlement %s: %w", row.SettlementID, err)
	}
	return nil
}

// =============================================================================
// MAPPINGS
// =============================================================================

// CommodityMappings returns the alias -> canonical commodity table.
func (s *Store) CommodityMappings(ctx context.Context) (map[string]string, error) {
	return s.queryMappings(ctx, "SELECT alias, standard_name FROM commodity_mappings")
}

// VendorMappings returns the alias -> canonical vendor table. A database
// without the table yields an empty map.
func (s *Store) VendorMappings(ctx context.Context) (map[string]string, error) {
	mappings, err := s.queryMappings(ctx, "SELECT alias, standard_name FROM vendor_normalization")
	if err != nil && isMissingTable(err) {
		return map[string]string{}, nil
	}
	return mappings, err
}

func (s *Store) queryMappings(ctx context.Context, query string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying mappings: %w", err)
	}
	defer rows.Close()

	mappings := make(map[string]string)
	for rows.Next() {
		var alias, standard string
		if err := rows.Scan(&alias, &standard); err != nil {
			return nil, err
		}
		mappings[alias] = standard
	}
	return mappings, rows.Err()
}

// SaveCommodityMapping upserts an alias -> canonical pair.
func (s *Store) SaveCommodityMapping(ctx context.Context, m grain.CommodityMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO commodity_mappings (alias, standard_name) VALUES (?, ?)",
		m.Alias, m.StandardName)
	return err
}

// SaveVendorMapping upserts a vendor alias -> canonical pair.
func (s *Store) SaveVendorMapping(ctx context.Context, alias, standard string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO vendor_normalization (alias, standard_name) VALUES (?, ?)",
		alias, standard)
	return err
}

// =============================================================================
// STARTING INVENTORY
// =============================================================================

// CropTotals returns aggregate totals for (crop year, crop), all types.
func (s *Store) CropTotals(ctx context.Context, year grain.CropYear, crop string) ([]grain.CropTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT crop_year, crop, initial_content, type FROM crop_totals WHERE crop_year = ? AND crop = ?",
		int(year), crop)
	if err != nil {
		if isMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying crop totals: %w", err)
	}
	defer rows.Close()

	var totals []grain.CropTotal
	for rows.Next() {
		var t grain.CropTotal
		var y int
		if err := rows.Scan(&y, &t.Crop, &t.InitialContent, &t.Type); err != nil {
			return nil, err
		}
		t.CropYear = grain.CropYear(y)
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// HarvestRecords returns per-field harvest entries for (crop year, crop).
func (s *Store) HarvestRecords(ctx context.Context, year grain.CropYear, crop string) ([]grain.HarvestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT field, crop_year, crop, bushels, finished_date, status FROM harvest_actual WHERE crop_year = ? AND crop = ?",
		int(year), crop)
	if err != nil {
		if isMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying harvest records: %w", err)
	}
	defer rows.Close()

	var records []grain.HarvestRecord
	for rows.Next() {
		var h grain.HarvestRecord
		var y int
		var finished sql.NullString
		if err := rows.Scan(&h.Field, &y, &h.Crop, &h.Bushels, &finished, &h.Status); err != nil {
			return nil, err
		}
		h.CropYear = grain.CropYear(y)
		h.FinishedDate = grain.ParseDate(finished.String)
		records = append(records, h)
	}
	return records, rows.Err()
}

// SaveCropTotal inserts an aggregate total. Fixture/import use only.
func (s *Store) SaveCropTotal(ctx context.Context, t grain.CropTotal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO crop_totals (crop_year, crop, initial_content, type) VALUES (?, ?, ?, ?)",
		int(t.CropYear), t.Crop, t.InitialContent, t.Type)
	return err
}

// SaveHarvestRecord inserts a harvest entry. Fixture/import use only.
func (s *Store) SaveHarvestRecord(ctx context.Context, h grain.HarvestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO harvest_actual (field, crop_year, crop, bushels, finished_date, status) VALUES (?, ?, ?, ?, ?, ?)",
		h.Field, int(h.CropYear), h.Crop, h.Bushels, dateArg(h.FinishedDate), h.Status)
	return err
}

// =============================================================================
// BINS
// =============================================================================

// BinNames returns every physical bin. Missing table yields empty results.
func (s *Store) BinNames(ctx context.Context) ([]grain.BinName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT location, bin_name, capacity_bushels FROM bin_names")
	if err != nil {
		if isMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying bin names: %w", err)
	}
	defer rows.Close()

	var bins []grain.BinName
	for rows.Next() {
		var b grain.BinName
		var capacity sql.NullInt64
		if err := rows.Scan(&b.Location, &b.Name, &capacity); err != nil {
			return nil, err
		}
		b.Capacity = capacity.Int64
		bins = append(bins, b)
	}
	return bins, rows.Err()
}

// CropStorage returns bin contents for a crop year. Missing table yields
// empty results.
func (s *Store) CropStorage(ctx context.Context, year grain.CropYear) ([]grain.CropStorage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT crop_year, location, bin_name, crop, bushels FROM crop_storage WHERE crop_year = ?",
		int(year))
	if err != nil {
		if isMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying crop storage: %w", err)
	}
	defer rows.Close()

	var storage []grain.CropStorage
	for rows.Next() {
		var cs grain.CropStorage
		var y int
		if err := rows.Scan(&y, &cs.Location, &cs.BinName, &cs.Crop, &cs.Bushels); err != nil {
			return nil, err
		}
		cs.CropYear = grain.CropYear(y)
		storage = append(storage, cs)
	}
	return storage, rows.Err()
}

// SaveBinName upserts a physical bin. Fixture/import use only.
func (s *Store) SaveBinName(ctx context.Context, b grain.BinName) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO bin_names (location, bin_name, capacity_bushels) VALUES (?, ?, ?)",
		b.Location, b.Name, b.Capacity)
	return err
}

// SaveCropStorage inserts a bin-contents record. Fixture/import use only.
func (s *Store) SaveCropStorage(ctx context.Context, cs grain.CropStorage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO crop_storage (crop_year, location, bin_name, crop, bushels) VALUES (?, ?, ?, ?, ?)",
		int(cs.CropYear), cs.Location, cs.BinName, cs.Crop, cs.Bushels)
	return err
}

// =============================================================================
// SCAN / ARG HELPERS
// =============================================================================

func decimalFrom(f sql.NullFloat64) decimal.Decimal {
	if !f.Valid {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f.Float64)
}

func decimalPtrFrom(f sql.NullFloat64) *decimal.Decimal {
	if !f.Valid {
		return nil
	}
	d := decimal.NewFromFloat(f.Float64)
	return &d
}

func decimalArg(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func decimalPtrArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return f
}

func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

// statusText renders an enum back to the source system's spelling.
func statusText(st grain.ContractStatus) string {
	switch st {
	case grain.StatusActive:
		return "Active"
	case grain.StatusCompleted:
		return "Completed"
	case grain.StatusCancelled:
		return "Cancelled"
	case grain.StatusReferencedOnly:
		return "Referenced Only"
	case grain.StatusPendingImport:
		return "Pending Import"
	default:
		return string(st)
	}
}

func fillText(f grain.FillStatus) string {
	switch f {
	case grain.FillNone:
		return "None"
	case grain.FillPartial:
		return "Partial"
	case grain.FillFilled:
		return "Filled"
	case grain.FillOver:
		return "Over"
	default:
		return string(f)
	}
}

func isMissingTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
