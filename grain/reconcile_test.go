package grain_test

import (
	"testing"

	"github.com/harvestline/bushel-engine/grain"
)

func TestSettlementRevenue_FallbackChain(t *testing.T) {
	// Revenue resolution order: net amount, then gross, then bushels x price.
	base := grain.Settlement{Bushels: 100, Price: dec("4.50")}

	s := base
	s.NetAmount = decPtr("430.00")
	s.GrossAmount = decPtr("450.00")
	if !decEq(s.Revenue(), "430.00") {
		t.Errorf("net amount present: Revenue() = %s, want 430.00", s.Revenue())
	}

	s = base
	s.GrossAmount = decPtr("450.00")
	if !decEq(s.Revenue(), "450.00") {
		t.Errorf("gross only: Revenue() = %s, want 450.00", s.Revenue())
	}

	s = base
	if !decEq(s.Revenue(), "450") {
		t.Errorf("no amounts: Revenue() = %s, want 450", s.Revenue())
	}

	// A present zero net amount is a real amount, not a missing one.
	s = base
	s.NetAmount = decPtr("0")
	s.GrossAmount = decPtr("450.00")
	if !s.Revenue().IsZero() {
		t.Errorf("zero net amount must stop the fallback, got %s", s.Revenue())
	}
}

func TestSettlementGross_SkipsNetAmount(t *testing.T) {
	// Gross resolution never consults the net amount.
	s := grain.Settlement{Bushels: 200, Price: dec("4.00"), NetAmount: decPtr("700.00")}
	if !decEq(s.Gross(), "800") {
		t.Errorf("Gross() = %s, want bushels x price = 800", s.Gross())
	}
	s.GrossAmount = decPtr("790.00")
	if !decEq(s.Gross(), "790.00") {
		t.Errorf("Gross() = %s, want 790.00", s.Gross())
	}
}

func TestSettlementContractNumber_OpenSales(t *testing.T) {
	cases := []struct {
		ref    string
		number string
		linked bool
	}{
		{"C-1001", "C-1001", true},
		{"  C-1001  ", "C-1001", true},
		{"", "", false},
		{"none", "", false},
		{"None", "", false},
		{"NONE", "", false},
	}
	for _, c := range cases {
		got, ok := grain.Settlement{ContractRef: c.ref}.ContractNumber()
		if got != c.number || ok != c.linked {
			t.Errorf("ContractNumber(%q) = %q,%v, want %q,%v", c.ref, got, ok, c.number, c.linked)
		}
	}
}

func TestSettlementIndex_SkipsOpenSales(t *testing.T) {
	idx := grain.NewSettlementIndex([]grain.Settlement{
		{SettlementID: "S1", ContractRef: "C-1001", Bushels: 100},
		{SettlementID: "S2", ContractRef: "none", Bushels: 500},
		{SettlementID: "S3", ContractRef: "", Bushels: 250},
		{SettlementID: "S4", ContractRef: "C-1001", Bushels: 50},
	})
	if got := len(idx.ForContract("C-1001")); got != 2 {
		t.Errorf("indexed %d rows for C-1001, want 2", got)
	}
	if got := len(idx.ForContract("none")); got != 0 {
		t.Errorf("open-sale rows must not be indexed, found %d", got)
	}
}

func TestRemaining_SubtractsAllMatchingRows(t *testing.T) {
	// GIVEN: A 1000 bu contract at $4.50 with a Header row and two line rows
	// settled against it
	contract := grain.Contract{
		Number:    "C-1001",
		Commodity: "Corn",
		Bushels:   1000,
		Price:     dec("4.50"),
		Fill:      grain.FillPartial,
	}
	idx := grain.NewSettlementIndex([]grain.Settlement{
		{SettlementID: "S1", Kind: grain.RowHeader, ContractRef: "C-1001", Bushels: 100, NetAmount: decPtr("450.00")},
		{SettlementID: "S1", Kind: grain.RowLine, ContractRef: "C-1001", Bushels: 40, NetAmount: decPtr("180.00")},
		{SettlementID: "S1", Kind: grain.RowLine, ContractRef: "C-1001", Bushels: 60, NetAmount: decPtr("270.00")},
		{SettlementID: "S2", Kind: grain.RowHeader, ContractRef: "C-9999", Bushels: 999},
	})

	// WHEN: The remainder is reconciled
	revenue, bushels := idx.Remaining(contract)

	// THEN: Header AND line rows are subtracted (this is not the Sold rule)
	if bushels != 1000-100-40-60 {
		t.Errorf("remaining bushels = %d, want 800", bushels)
	}
	if !decEq(revenue, "3600") {
		t.Errorf("remaining revenue = %s, want 4500 - 900 = 3600", revenue)
	}
}

func TestRemaining_OverDeliveredGoesNegative(t *testing.T) {
	// The remainder is signed; callers decide whether to clamp.
	contract := grain.Contract{Number: "C-2", Bushels: 100, Price: dec("4.00")}
	idx := grain.NewSettlementIndex([]grain.Settlement{
		{SettlementID: "S1", Kind: grain.RowHeader, ContractRef: "C-2", Bushels: 150, NetAmount: decPtr("600.00")},
	})
	revenue, bushels := idx.Remaining(contract)
	if bushels != -50 {
		t.Errorf("over-delivered remaining bushels = %d, want -50", bushels)
	}
	if !decEq(revenue, "-200") {
		t.Errorf("over-delivered remaining revenue = %s, want -200", revenue)
	}
}

func TestRemaining_NoSettlements(t *testing.T) {
	contract := grain.Contract{Number: "C-3", Bushels: 500, Price: dec("10.25")}
	idx := grain.NewSettlementIndex(nil)
	revenue, bushels := idx.Remaining(contract)
	if bushels != 500 || !decEq(revenue, "5125") {
		t.Errorf("untouched contract remaining = %s, %d; want 5125, 500", revenue, bushels)
	}
}
