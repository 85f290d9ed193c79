package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/lemo-maschinenbau/reisekosten/internal/form"
)

const sheetName = "Sheet1"

// Workbook cell anchors. The header block sits on top, cost rows grow
// below it, the totals block follows the last cost row.
const (
	cellCompany   = "A1"
	cellTitle     = "A2"
	cellName      = "B4"
	cellPersonnel = "B5"
	cellProject   = "B6"
	cellDeparture = "B8"
	cellReturn    = "B9"
	cellCountry   = "B11"
	rateRowStart  = 12
	costRowStart  = 17
)

// WorkbookRenderer writes the form snapshot into a fresh xlsx workbook
// for the accounting hand-off.
type WorkbookRenderer struct {
	companyName string
	logger      *zap.Logger
}

// NewWorkbookRenderer creates a renderer with the configured company
// header.
func NewWorkbookRenderer(companyName string, logger *zap.Logger) *WorkbookRenderer {
	return &WorkbookRenderer{companyName: companyName, logger: logger}
}

// Render produces the workbook bytes for one form snapshot.
func (r *WorkbookRenderer) Render(doc form.Document, now time.Time) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	set := func(cell string, value interface{}) error {
		return file.SetCellValue(sheetName, cell, value)
	}

	header := []struct {
		cell  string
		value string
	}{
		{cellCompany, r.companyName},
		{cellTitle, "Reisekosten / Vorschussformular"},
		{"A4", "Name"}, {cellName, doc.Name},
		{"A5", "Personalnummer"}, {cellPersonnel, doc.PersonnelNumber},
		{"A6", "Projekt / Auftrags-Nr."}, {cellProject, doc.Project},
		{"A8", "Anreisetag"}, {cellDeparture, germanDate(doc.DepartureDate)},
		{"A9", "Rückreisetag"}, {cellReturn, germanDate(doc.ReturnDate)},
		{"A11", "Land / Ort laut BMF-Tabelle"}, {cellCountry, orDash(doc.Country)},
	}
	for _, h := range header {
		if err := set(h.cell, h.value); err != nil {
			return nil, fmt.Errorf("failed to fill header cell %s: %w", h.cell, err)
		}
	}

	rateRows := []struct {
		label string
		count string
		rate  string
	}{
		{"Verpflegung 24h", doc.FullDays, doc.RateFull},
		{"An-/Abreisetage (>8h)", doc.TravelDays, doc.RatePartial},
		{"Übernachtungen", doc.Overnights, doc.RateOvernight},
	}
	for i, rr := range rateRows {
		row := rateRowStart + i
		if err := set(fmt.Sprintf("A%d", row), rr.label); err != nil {
			return nil, fmt.Errorf("failed to fill rate row %d: %w", row, err)
		}
		if err := set(fmt.Sprintf("B%d", row), rr.count); err != nil {
			return nil, fmt.Errorf("failed to fill rate row %d: %w", row, err)
		}
		if err := set(fmt.Sprintf("C%d", row), rr.rate); err != nil {
			return nil, fmt.Errorf("failed to fill rate row %d: %w", row, err)
		}
	}

	if err := set(fmt.Sprintf("A%d", costRowStart-1), "Sonstige Kosten"); err != nil {
		return nil, fmt.Errorf("failed to fill cost heading: %w", err)
	}
	row := costRowStart
	for _, cost := range doc.Costs {
		if cost.Empty() {
			continue
		}
		if err := set(fmt.Sprintf("A%d", row), cost.Description); err != nil {
			return nil, fmt.Errorf("failed to fill cost row %d: %w", row, err)
		}
		if err := set(fmt.Sprintf("B%d", row), cost.Amount); err != nil {
			return nil, fmt.Errorf("failed to fill cost row %d: %w", row, err)
		}
		row++
	}
	row++

	sums := []struct {
		label string
		value string
	}{
		{"Summe Verpflegung", doc.SumMeals},
		{"Summe Übernachtung", doc.SumOvernights},
		{"Summe sonstige Kosten", doc.SumOtherCosts},
		{"Gesamtbetrag Vorschuss", doc.SumTotal},
	}
	for i, s := range sums {
		if err := set(fmt.Sprintf("A%d", row+i), s.label); err != nil {
			return nil, fmt.Errorf("failed to fill totals: %w", err)
		}
		if err := set(fmt.Sprintf("B%d", row+i), s.value); err != nil {
			return nil, fmt.Errorf("failed to fill totals: %w", err)
		}
	}

	footer := fmt.Sprintf("Erstellt am: %s Uhr", now.Format("2006-01-02 15:04"))
	if err := set(fmt.Sprintf("A%d", row+len(sums)+1), footer); err != nil {
		return nil, fmt.Errorf("failed to fill footer: %w", err)
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
