// Package export renders a form snapshot into the documents that leave
// the system: the printable PDF advance form and an xlsx workbook for
// the accounting side.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/lemo-maschinenbau/reisekosten/internal/form"
	"github.com/lemo-maschinenbau/reisekosten/internal/trip"
)

// Brand accent used for the company header and the rule line.
const (
	brandR = 0
	brandG = 159
	brandB = 227
)

const (
	marginLeft = 15.0
	pageRight  = 195.0
)

// PDFRenderer draws the advance form onto an A4 page in the layout of
// the printed company form.
type PDFRenderer struct {
	companyName string
	logger      *zap.Logger
}

// NewPDFRenderer creates a renderer with the configured company header.
func NewPDFRenderer(companyName string, logger *zap.Logger) *PDFRenderer {
	return &PDFRenderer{companyName: companyName, logger: logger}
}

// Render produces the PDF bytes for one form snapshot. The document
// reads only the snapshot fields; it never recomputes any sum.
func (r *PDFRenderer) Render(doc form.Document, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	y := 15.0
	text := func(x, y float64, s string) {
		pdf.Text(x, y, tr(s))
	}

	// Head
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(brandR, brandG, brandB)
	text(marginLeft, y, r.companyName)
	y += 7

	pdf.SetFontSize(13)
	pdf.SetTextColor(0, 0, 0)
	text(marginLeft, y, "Reisekosten / Vorschussformular")
	y += 10

	pdf.SetLineWidth(0.3)
	pdf.SetDrawColor(brandR, brandG, brandB)
	pdf.Line(marginLeft, y, pageRight-marginLeft, y)
	y += 5

	// Mitarbeiter- & Auftragsdaten
	pdf.SetFontSize(12)
	pdf.SetFont("Helvetica", "B", 12)
	text(marginLeft, y, "Mitarbeiter- & Auftragsdaten")
	y += 5

	pdf.SetFont("Helvetica", "", 12)
	text(marginLeft, y, fmt.Sprintf("Name: %s", doc.Name))
	y += 5
	text(marginLeft, y, fmt.Sprintf("Personalnummer: %s", doc.PersonnelNumber))
	y += 5
	text(marginLeft, y, fmt.Sprintf("Projekt / Auftrags-Nr.: %s", doc.Project))
	y += 8

	// Reisezeit
	pdf.SetFont("Helvetica", "B", 12)
	text(marginLeft, y, "Reisezeit")
	y += 5
	pdf.SetFont("Helvetica", "", 12)
	text(marginLeft, y, fmt.Sprintf("Anreisetag: %s", germanDate(doc.DepartureDate)))
	y += 5
	text(marginLeft, y, fmt.Sprintf("Rückreisetag: %s", germanDate(doc.ReturnDate)))
	y += 7

	// Pauschalen
	pdf.SetFont("Helvetica", "B", 12)
	text(marginLeft, y, "Pauschalen")
	y += 5
	pdf.SetFont("Helvetica", "", 12)
	text(marginLeft, y, fmt.Sprintf("Land / Ort laut BMF-Tabelle: %s", orDash(doc.Country)))
	y += 5
	text(marginLeft, y, fmt.Sprintf("Verpflegung 24h: %s × %s €", doc.FullDays, doc.RateFull))
	y += 5
	text(marginLeft, y, fmt.Sprintf("An-/Abreisetage (>8h): %s × %s €", doc.TravelDays, doc.RatePartial))
	y += 5
	text(marginLeft, y, fmt.Sprintf("Übernachtungen: %s × %s €", doc.Overnights, doc.RateOvernight))
	y += 5
	text(marginLeft, y, fmt.Sprintf("Summe Verpflegung: %s €", doc.SumMeals))
	y += 5
	text(marginLeft, y, fmt.Sprintf("Summe Übernachtung: %s €", doc.SumOvernights))
	y += 7

	// Sonstige Kosten
	pdf.SetFont("Helvetica", "B", 12)
	text(marginLeft, y, "Sonstige Kosten")
	y += 5
	pdf.SetFont("Helvetica", "", 12)
	for _, cost := range doc.Costs {
		if cost.Empty() {
			continue
		}
		text(marginLeft, y, fmt.Sprintf("• %s – %s €", cost.Description, cost.Amount))
		y += 5
	}
	y += 2
	text(marginLeft, y, fmt.Sprintf("Summe sonstige Kosten: %s €", doc.SumOtherCosts))
	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	text(marginLeft, y, fmt.Sprintf("Gesamtbetrag Vorschuss: %s €", doc.SumTotal))
	y += 10

	// Ort, Datum & Unterschriften
	text(marginLeft, y, "Ort, Datum & Unterschriften")
	y += 5
	pdf.SetFont("Helvetica", "", 12)
	text(marginLeft, y, fmt.Sprintf("Ort: %s", orDash(doc.Location)))
	y += 5
	text(marginLeft, y, fmt.Sprintf("Datum: %s", germanDate(doc.SigningDate)))
	y += 10

	sigY := y
	text(marginLeft, sigY, "Mitarbeiter/in")
	text(marginLeft+80, sigY, "Vorgesetzte/r")

	pdf.Line(marginLeft, sigY+20, marginLeft+60, sigY+20)
	pdf.Line(marginLeft+80, sigY+20, marginLeft+140, sigY+20)

	r.placeSignature(pdf, "sig_employee", doc.SignatureEmployee, marginLeft, sigY+6)
	r.placeSignature(pdf, "sig_manager", doc.SignatureManager, marginLeft+80, sigY+6)

	pdf.SetFont("Helvetica", "", 10)
	text(marginLeft, 285, fmt.Sprintf("Erstellt am: %s Uhr", now.Format("2006-01-02 15:04")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// placeSignature embeds one signature PNG. A broken image must not sink
// the whole document, matching the on-paper fallback of signing on the
// printed line.
func (r *PDFRenderer) placeSignature(pdf *gofpdf.Fpdf, name string, png []byte, x, y float64) {
	if len(png) == 0 {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if pdf.Err() {
		r.logger.Warn("signature image could not be embedded",
			zap.String("image", name),
			zap.Error(pdf.Error()))
		pdf.ClearError()
		return
	}
	pdf.ImageOptions(name, x, y, 60, 12, false, opts, 0, "")
}

// germanDate turns ISO field text into DD.MM.YYYY; empty fields print
// as a dash, unparsable text passes through unchanged.
func germanDate(iso string) string {
	if d, ok := trip.ParseDate(iso); ok {
		return d.German()
	}
	return orDash(iso)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
