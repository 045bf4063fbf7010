// Package store provides ReadStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/harvestline/bushel-engine/grain"
)

// =============================================================================
// MEMORY STORE - In-memory snapshot (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	contracts   []grain.Contract
	settlements []grain.Settlement
	commodities map[string]string
	vendors     map[string]string
	cropTotals  []grain.CropTotal
	harvest     []grain.HarvestRecord
	bins        []grain.BinName
	storage     []grain.CropStorage
}

func NewMemory() *Memory {
	return &Memory{
		commodities: make(map[string]string),
		vendors:     make(map[string]string),
	}
}

// Compile-time interface checks.
var (
	_ grain.ReadStore = (*Memory)(nil)
	_ grain.BinStore  = (*Memory)(nil)
)

// -----------------------------------------------------------------------------
// Fixture setters
// -----------------------------------------------------------------------------

func (m *Memory) AddContracts(cs ...grain.Contract) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts = append(m.contracts, cs...)
}

func (m *Memory) AddSettlements(ss ...grain.Settlement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settlements = append(m.settlements, ss...)
}

func (m *Memory) MapCommodity(alias, standard string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commodities[alias] = standard
}

func (m *Memory) MapVendor(alias, standard string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vendors[alias] = standard
}

func (m *Memory) AddCropTotals(ts ...grain.CropTotal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cropTotals = append(m.cropTotals, ts...)
}

func (m *Memory) AddHarvestRecords(hs ...grain.HarvestRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.harvest = append(m.harvest, hs...)
}

func (m *Memory) AddBinNames(bs ...grain.BinName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bins = append(m.bins, bs...)
}

func (m *Memory) AddCropStorage(cs ...grain.CropStorage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storage = append(m.storage, cs...)
}

// -----------------------------------------------------------------------------
// grain.ReadStore
// -----------------------------------------------------------------------------

func (m *Memory) Contracts(_ context.Context) ([]grain.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]grain.Contract, len(m.contracts))
	copy(out, m.contracts)
	return out, nil
}

func (m *Memory) Settlements(_ context.Context) ([]grain.Settlement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]grain.Settlement, len(m.settlements))
	copy(out, m.settlements)
	return out, nil
}

func (m *Memory) CommodityMappings(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.commodities))
	for k, v := range m.commodities {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) VendorMappings(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.vendors))
	for k, v := range m.vendors {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) CropTotals(_ context.Context, year grain.CropYear, crop string) ([]grain.CropTotal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []grain.CropTotal
	for _, t := range m.cropTotals {
		if t.CropYear == year && t.Crop == crop {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Memory) HarvestRecords(_ context.Context, year grain.CropYear, crop string) ([]grain.HarvestRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []grain.HarvestRecord
	for _, h := range m.harvest {
		if h.CropYear == year && h.Crop == crop {
			out = append(out, h)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// grain.BinStore
// -----------------------------------------------------------------------------

func (m *Memory) BinNames(_ context.Context) ([]grain.BinName, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]grain.BinName, len(m.bins))
	copy(out, m.bins)
	return out, nil
}

func (m *Memory) CropStorage(_ context.Context, year grain.CropYear) ([]grain.CropStorage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []grain.CropStorage
	for _, cs := range m.storage {
		if cs.CropYear == year {
			out = append(out, cs)
		}
	}
	return out, nil
}
