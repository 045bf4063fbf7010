/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  JSON structures returned to the dashboard frontend. These decouple the
  engine's decimal-based domain model from the wire format: dollar values
  serialize as strings to preserve precision, bushels as integers.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Wrappers grouping DTOs per crop year

SEE ALSO:
  - handlers.go: Builds these from engine output
*/
package api

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/harvestline/bushel-engine/grain"
)

// =============================================================================
// SALES
// =============================================================================

// SalesSummaryDTO is one crop's Sold/Contracted/Open position.
type SalesSummaryDTO struct {
	Crop              string `json:"crop"`
	SoldBushels       int64  `json:"sold_bushels"`
	SoldRevenue       string `json:"sold_revenue"`
	ContractedBushels int64  `json:"contracted_bushels"`
	ContractedRevenue string `json:"contracted_revenue"`
	OpenBushels       int64  `json:"open_bushels"`
	OpenRevenue       string `json:"open_revenue,omitempty"`
}

// CropYearSalesResponse is the sales report for one crop year.
type CropYearSalesResponse struct {
	CropYear int               `json:"crop_year"`
	Start    string            `json:"start"`
	End      string            `json:"end"`
	Crops    []SalesSummaryDTO `json:"crops"`
}

func newSalesResponse(year grain.CropYear, sales map[string]grain.SalesSummary, openPrice *decimal.Decimal) CropYearSalesResponse {
	start, end := year.Range()
	resp := CropYearSalesResponse{
		CropYear: int(year),
		Start:    start.Format("2006-01-02"),
		End:      end.Format("2006-01-02"),
	}
	for crop, s := range sales {
		dto := SalesSummaryDTO{
			Crop:              crop,
			SoldBushels:       s.SoldBushels,
			SoldRevenue:       s.SoldRevenue.StringFixed(2),
			ContractedBushels: s.ContractedBushels,
			ContractedRevenue: s.ContractedRevenue.StringFixed(2),
			OpenBushels:       s.OpenBushels,
		}
		// Open revenue needs a caller-supplied price; the engine only
		// produces open bushels.
		if openPrice != nil {
			dto.OpenRevenue = openPrice.Mul(decimal.NewFromInt(s.OpenBushels)).StringFixed(2)
		}
		resp.Crops = append(resp.Crops, dto)
	}
	sort.Slice(resp.Crops, func(i, j int) bool { return resp.Crops[i].Crop < resp.Crops[j].Crop })
	return resp
}

// =============================================================================
// MONTHLY DELIVERIES
// =============================================================================

// MonthlyBucketDTO is one (crop, month) slot of the trend data.
type MonthlyBucketDTO struct {
	Month     int    `json:"month"`      // crop-year slot: 1 = October ... 12 = September
	MonthName string `json:"month_name"` // display name
	Bushels   int64  `json:"bushels"`
	Gross     string `json:"gross_amount"`
	Price     string `json:"price"`
}

// MonthlyCropDTO is one crop's month-by-month deliveries.
type MonthlyCropDTO struct {
	Crop   string             `json:"crop"`
	Months []MonthlyBucketDTO `json:"months"`
}

// MonthlyDeliveriesResponse is the trend report for one crop year.
type MonthlyDeliveriesResponse struct {
	CropYear int              `json:"crop_year"`
	Crops    []MonthlyCropDTO `json:"crops"`
}

func newMonthlyResponse(year grain.CropYear, monthly map[string]map[int]grain.MonthlyBucket) MonthlyDeliveriesResponse {
	resp := MonthlyDeliveriesResponse{CropYear: int(year)}
	for crop, months := range monthly {
		dto := MonthlyCropDTO{Crop: crop}
		for month, bucket := range months {
			dto.Months = append(dto.Months, MonthlyBucketDTO{
				Month:     month,
				MonthName: grain.MonthNameOfIndex(month),
				Bushels:   bucket.Bushels,
				Gross:     bucket.Gross.StringFixed(2),
				Price:     bucket.Price.StringFixed(4),
			})
		}
		sort.Slice(dto.Months, func(i, j int) bool { return dto.Months[i].Month < dto.Months[j].Month })
		resp.Crops = append(resp.Crops, dto)
	}
	sort.Slice(resp.Crops, func(i, j int) bool { return resp.Crops[i].Crop < resp.Crops[j].Crop })
	return resp
}

// =============================================================================
// CONTRACTS AND SETTLEMENTS
// =============================================================================

// ContractDTO represents a contract in API responses.
type ContractDTO struct {
	Number        string `json:"contract_number"`
	Commodity     string `json:"commodity"`
	Bushels       int64  `json:"bushels"`
	Price         string `json:"price"`
	Buyer         string `json:"buyer"`
	Status        string `json:"status"`
	FillStatus    string `json:"fill_status"`
	DateSold      string `json:"date_sold,omitempty"`
	DeliveryStart string `json:"delivery_start,omitempty"`
	DeliveryEnd   string `json:"delivery_end,omitempty"`
}

func newContractDTO(c grain.Contract) ContractDTO {
	return ContractDTO{
		Number:        c.Number,
		Commodity:     c.Commodity,
		Bushels:       c.Bushels,
		Price:         c.Price.StringFixed(4),
		Buyer:         c.Buyer,
		Status:        string(c.Status),
		FillStatus:    string(c.Fill),
		DateSold:      formatDate(c.DateSold),
		DeliveryStart: formatDate(c.DeliveryStart),
		DeliveryEnd:   formatDate(c.DeliveryEnd),
	}
}

// SettlementDTO represents a settlement row in API responses.
type SettlementDTO struct {
	SettlementID  string `json:"settlement_id"`
	Kind          string `json:"kind"`
	ContractRef   string `json:"contract_ref,omitempty"`
	Commodity     string `json:"commodity"`
	Bushels       int64  `json:"bushels"`
	Price         string `json:"price"`
	GrossAmount   string `json:"gross_amount,omitempty"`
	NetAmount     string `json:"net_amount,omitempty"`
	Revenue       string `json:"revenue"`
	DateDelivered string `json:"date_delivered,omitempty"`
	Buyer         string `json:"buyer,omitempty"`
	Bin           string `json:"bin,omitempty"`
}

func newSettlementDTO(s grain.Settlement) SettlementDTO {
	dto := SettlementDTO{
		SettlementID:  s.SettlementID,
		Kind:          string(s.Kind),
		ContractRef:   s.ContractRef,
		Commodity:     s.Commodity,
		Bushels:       s.Bushels,
		Price:         s.Price.StringFixed(4),
		Revenue:       s.Revenue().StringFixed(2),
		DateDelivered: formatDate(s.DateDelivered),
		Buyer:         s.Buyer,
		Bin:           s.Bin,
	}
	if s.GrossAmount != nil {
		dto.GrossAmount = s.GrossAmount.StringFixed(2)
	}
	if s.NetAmount != nil {
		dto.NetAmount = s.NetAmount.StringFixed(2)
	}
	return dto
}

// =============================================================================
// BINS
// =============================================================================

// BinDTO pairs a bin with its crop-year contents.
type BinDTO struct {
	Location string `json:"location"`
	Bin      string `json:"bin"`
	Capacity int64  `json:"capacity_bushels,omitempty"`
	Bushels  int64  `json:"bushels"`
}

// BinsByCropResponse groups bins by crop for a crop year.
type BinsByCropResponse struct {
	CropYear int                 `json:"crop_year"`
	Crops    map[string][]BinDTO `json:"crops"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
