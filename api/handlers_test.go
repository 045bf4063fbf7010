package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/harvestline/bushel-engine/grain"
	"github.com/harvestline/bushel-engine/store/sqlite"
)

// newTestServer spins up the full router over an in-memory database seeded
// with one crop year of data:
//
//	Contract C-1001: 1000 bu Yellow Corn @ $4.50, Active, Partial
//	Settlement S-1:  Header 400 bu / $1800 net + its line row against C-1001
//	Mapping:         Yellow Corn -> Corn
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	seed := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}
	seed(store.SaveCommodityMapping(ctx, grain.CommodityMapping{Alias: "Yellow Corn", StandardName: "Corn"}))
	seed(store.SaveContract(ctx, grain.Contract{
		Number: "C-1001", Commodity: "Yellow Corn", Bushels: 1000,
		Price: decimal.NewFromFloat(4.5), Status: grain.StatusActive, Fill: grain.FillPartial,
		DeliveryStart: grain.DateOf(2024, time.November, 1),
	}))
	delivered := grain.DateOf(2024, time.November, 20)
	net := decimal.NewFromInt(1800)
	seed(store.SaveSettlement(ctx, grain.Settlement{
		SettlementID: "S-1", Kind: grain.RowHeader, Commodity: "Yellow Corn",
		Bushels: 400, NetAmount: &net, DateDelivered: delivered,
	}))
	seed(store.SaveSettlement(ctx, grain.Settlement{
		SettlementID: "S-1", Kind: grain.RowLine, ContractRef: "C-1001", Commodity: "Yellow Corn",
		Bushels: 400, NetAmount: &net, DateDelivered: delivered, LineNumber: 1,
	}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	server := httptest.NewServer(NewRouter(NewHandler(store, log)))
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, server *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestGetCurrentCropYear(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/crop-years/current")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		CropYear int    `json:"crop_year"`
		Start    string `json:"start"`
		End      string `json:"end"`
	}
	decodeJSON(t, resp, &body)
	if body.CropYear != int(grain.CurrentCropYear()) {
		t.Errorf("crop_year = %d, want %d", body.CropYear, grain.CurrentCropYear())
	}
	if !strings.HasSuffix(body.Start, "-10-01") || !strings.HasSuffix(body.End, "-09-30") {
		t.Errorf("window = %s .. %s, want Oct 1 .. Sep 30", body.Start, body.End)
	}
}

func TestGetCropYearSales(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/crop-years/2024/sales")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body CropYearSalesResponse
	decodeJSON(t, resp, &body)
	if body.CropYear != 2024 || len(body.Crops) != 1 {
		t.Fatalf("body = %+v, want one 2024 crop row", body)
	}
	corn := body.Crops[0]
	if corn.Crop != "Corn" {
		t.Errorf("crop = %q, want the canonical name Corn", corn.Crop)
	}
	if corn.SoldBushels != 400 || corn.SoldRevenue != "1800.00" {
		t.Errorf("sold = %d / %s, want 400 / 1800.00", corn.SoldBushels, corn.SoldRevenue)
	}
	if corn.ContractedBushels != 600 || corn.ContractedRevenue != "2700.00" {
		t.Errorf("contracted = %d / %s, want 600 / 2700.00", corn.ContractedBushels, corn.ContractedRevenue)
	}
	if corn.OpenRevenue != "" {
		t.Errorf("open_revenue = %q, want omitted without open_price", corn.OpenRevenue)
	}
}

func TestGetCropYearSales_OpenPrice(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/crop-years/2024/sales?open_price=4.25")
	var body CropYearSalesResponse
	decodeJSON(t, resp, &body)
	// Open bushels are 0 here (no starting inventory), so open revenue
	// prices out to zero rather than being omitted.
	if body.Crops[0].OpenRevenue != "0.00" {
		t.Errorf("open_revenue = %q, want 0.00", body.Crops[0].OpenRevenue)
	}

	resp = get(t, server, "/api/crop-years/2024/sales?open_price=abc")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad open_price status = %d, want 400", resp.StatusCode)
	}
}

func TestGetCropYearSales_InvalidYear(t *testing.T) {
	server := newTestServer(t)
	for _, path := range []string{
		"/api/crop-years/abc/sales",
		"/api/crop-years/1776/sales",
		"/api/crop-years/9999/sales",
	} {
		if resp := get(t, server, path); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestGetMonthlyDeliveries(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/crop-years/2024/monthly")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body MonthlyDeliveriesResponse
	decodeJSON(t, resp, &body)
	if len(body.Crops) != 1 || body.Crops[0].Crop != "Corn" {
		t.Fatalf("body = %+v, want one Corn entry", body)
	}
	// November deliveries (Header + line = 800 bu) land in month 2; the
	// partial contract's 600 bu remainder also starts in November.
	months := body.Crops[0].Months
	if len(months) != 1 || months[0].Month != 2 || months[0].MonthName != "November" {
		t.Fatalf("months = %+v, want a single November slot", months)
	}
	if months[0].Bushels != 800+600 {
		t.Errorf("November bushels = %d, want 1400", months[0].Bushels)
	}
}

func TestGetContract(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/contracts/C-1001")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body ContractDTO
	decodeJSON(t, resp, &body)
	if body.Number != "C-1001" || body.Status != "active" || body.FillStatus != "partial" {
		t.Errorf("body = %+v", body)
	}

	if resp := get(t, server, "/api/contracts/C-9999"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing contract status = %d, want 404", resp.StatusCode)
	}
}

func TestListContracts_Filters(t *testing.T) {
	server := newTestServer(t)

	var contracts []ContractDTO
	decodeJSON(t, get(t, server, "/api/contracts?fill=partial"), &contracts)
	if len(contracts) != 1 || contracts[0].Number != "C-1001" {
		t.Errorf("fill=partial = %+v, want C-1001", contracts)
	}

	contracts = nil
	decodeJSON(t, get(t, server, "/api/contracts?fill=filled"), &contracts)
	if len(contracts) != 0 {
		t.Errorf("fill=filled = %+v, want none", contracts)
	}

	// Commodity filtering works on the canonical name, not the raw alias.
	contracts = nil
	decodeJSON(t, get(t, server, "/api/contracts?commodity=Corn"), &contracts)
	if len(contracts) != 1 {
		t.Errorf("commodity=Corn = %+v, want C-1001", contracts)
	}
}

func TestGetContractSettlements(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/contracts/C-1001/settlements")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Contract         ContractDTO     `json:"contract"`
		Settlements      []SettlementDTO `json:"settlements"`
		RemainingBushels int64           `json:"remaining_bushels"`
		RemainingRevenue string          `json:"remaining_revenue"`
	}
	decodeJSON(t, resp, &body)
	if len(body.Settlements) != 1 {
		t.Fatalf("settlements = %+v, want the one line row", body.Settlements)
	}
	if body.RemainingBushels != 600 || body.RemainingRevenue != "2700.00" {
		t.Errorf("remaining = %d / %s, want 600 / 2700.00", body.RemainingBushels, body.RemainingRevenue)
	}
}

func TestListSettlementsAndIDs(t *testing.T) {
	server := newTestServer(t)

	var rows []SettlementDTO
	decodeJSON(t, get(t, server, "/api/settlements?settlement_id=S-1"), &rows)
	if len(rows) != 2 {
		t.Errorf("S-1 rows = %d, want Header + line", len(rows))
	}

	var ids []string
	decodeJSON(t, get(t, server, "/api/settlements/ids"), &ids)
	if len(ids) != 1 || ids[0] != "S-1" {
		t.Errorf("ids = %v, want [S-1]", ids)
	}
}

func TestListCommodities(t *testing.T) {
	server := newTestServer(t)

	var names []string
	decodeJSON(t, get(t, server, "/api/commodities"), &names)
	if len(names) != 1 || names[0] != "Corn" {
		t.Errorf("commodities = %v, want [Corn]", names)
	}
}

func TestInvalidateMappings(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/mappings/invalidate", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestExportCropYearSales_CSV(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/crop-years/2024/sales/export")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv = %q, want header + one row", raw)
	}
	if !strings.Contains(lines[1], "Corn,400,1800.00,600,2700.00,0") {
		t.Errorf("csv row = %q", lines[1])
	}
}

func TestExportCropYearSales_Excel(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/crop-years/2024/sales/export?format=xlsx")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}

	if resp := get(t, server, "/api/crop-years/2024/sales/export?format=pdf"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown format status = %d, want 400", resp.StatusCode)
	}
}
