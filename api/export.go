/*
export.go - CSV and Excel downloads of the crop-year reports

PURPOSE:
  Renders the sales and monthly reports as files for spreadsheet use.
  The format query parameter selects csv (default) or xlsx.
*/
package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ExportCropYearSales streams the sales report as CSV or Excel.
func (h *Handler) ExportCropYearSales(w http.ResponseWriter, r *http.Request) {
	year, ok := h.cropYearParam(w, r)
	if !ok {
		return
	}
	sales, err := h.engine.CropYearSales(r.Context(), year)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	resp := newSalesResponse(year, sales, nil)

	header := []string{"Crop", "Sold Bushels", "Sold Revenue",
		"Contracted Bushels", "Contracted Revenue", "Open Bushels"}
	var records [][]string
	for _, c := range resp.Crops {
		records = append(records, []string{
			c.Crop,
			strconv.FormatInt(c.SoldBushels, 10),
			c.SoldRevenue,
			strconv.FormatInt(c.ContractedBushels, 10),
			c.ContractedRevenue,
			strconv.FormatInt(c.OpenBushels, 10),
		})
	}

	h.writeExport(w, r, fmt.Sprintf("crop_year_%d_sales", year), header, records)
}

// ExportMonthlyDeliveries streams the monthly trend report as CSV or Excel.
func (h *Handler) ExportMonthlyDeliveries(w http.ResponseWriter, r *http.Request) {
	year, ok := h.cropYearParam(w, r)
	if !ok {
		return
	}
	monthly, err := h.engine.MonthlyDeliveries(r.Context(), year)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	resp := newMonthlyResponse(year, monthly)

	header := []string{"Crop", "Month", "Bushels", "Gross Amount", "Price"}
	var records [][]string
	for _, crop := range resp.Crops {
		for _, m := range crop.Months {
			records = append(records, []string{
				crop.Crop,
				m.MonthName,
				strconv.FormatInt(m.Bushels, 10),
				m.Gross,
				m.Price,
			})
		}
	}

	h.writeExport(w, r, fmt.Sprintf("crop_year_%d_monthly", year), header, records)
}

// writeExport renders a header + records table in the requested format.
func (h *Handler) writeExport(w http.ResponseWriter, r *http.Request, name string, header []string, records [][]string) {
	switch r.URL.Query().Get("format") {
	case "xlsx":
		h.writeExcel(w, r, name, header, records)
	case "", "csv":
		h.writeCSV(w, r, name, header, records)
	default:
		writeError(w, http.StatusBadRequest, "format must be csv or xlsx")
	}
}

func (h *Handler) writeCSV(w http.ResponseWriter, r *http.Request, name string, header []string, records [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		h.log.WithError(err).Error("writing csv header")
		return
	}
	if err := cw.WriteAll(records); err != nil {
		h.log.WithError(err).Error("writing csv records")
		return
	}
	cw.Flush()
}

func (h *Handler) writeExcel(w http.ResponseWriter, r *http.Request, name string, header []string, records [][]string) {
	const sheet = "Report"

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	for i, col := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	for rowIdx, record := range records {
		for colIdx, value := range record {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			// Numeric columns export as numbers so spreadsheet formulas work.
			if n, err := strconv.ParseFloat(value, 64); err == nil && colIdx > 0 {
				f.SetCellValue(sheet, cell, n)
			} else {
				f.SetCellValue(sheet, cell, value)
			}
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
	if _, err := f.WriteTo(w); err != nil {
		h.log.WithError(err).Error("writing xlsx")
	}
}
