// Package form holds the explicit state of one expense-advance form
// and recomputes its derived fields on every change, the way the
// on-screen form does.
package form

import (
	"github.com/lemo-maschinenbau/reisekosten/internal/ledger"
)

// State is the complete form content. Every field the exporters and
// the mail draft read lives here; nothing is kept in package globals.
// Derived fields (day counts, sums) are stored as display text because
// that is what the form shows and the document prints.
type State struct {
	// Mitarbeiter- & Auftragsdaten
	Name            string
	PersonnelNumber string
	Project         string

	// Ort, Datum of the signature line
	Location    string
	SigningDate string

	// Reisezeit, ISO date text as delivered by a date picker
	DepartureDate string
	ReturnDate    string

	// Pauschalen
	Country       string
	RateFull      string
	RatePartial   string
	RateOvernight string

	// Derived day breakdown; blank (not "0") while the range is invalid
	TotalDays  string
	FullDays   string
	TravelDays string
	Overnights string

	// Derived sums, always in "0,00" display form
	SumMeals      string
	SumOvernights string
	SumOtherCosts string
	SumTotal      string

	Costs *ledger.Ledger

	// Opaque PNG captures, nil when not signed
	SignatureEmployee []byte
	SignatureManager  []byte
}

// Document is the read-only snapshot consumed by the PDF and workbook
// exporters and by the mail draft. All three read exactly these values,
// so the rendered document and the draft cannot diverge.
type Document struct {
	Name            string `json:"name"`
	PersonnelNumber string `json:"personnel_number"`
	Project         string `json:"project"`
	Location        string `json:"location"`
	SigningDate     string `json:"signing_date"`

	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`

	Country       string `json:"country"`
	RateFull      string `json:"rate_full"`
	RatePartial   string `json:"rate_partial"`
	RateOvernight string `json:"rate_overnight"`

	TotalDays  string `json:"total_days"`
	FullDays   string `json:"full_days"`
	TravelDays string `json:"travel_days"`
	Overnights string `json:"overnights"`

	SumMeals      string `json:"sum_meals"`
	SumOvernights string `json:"sum_overnights"`
	SumOtherCosts string `json:"sum_other_costs"`
	SumTotal      string `json:"sum_total"`

	Costs []ledger.Entry `json:"costs"`

	SignatureEmployee []byte `json:"-"`
	SignatureManager  []byte `json:"-"`
}

// Update is a partial change to the form fields. Nil pointers leave the
// corresponding field untouched, so one request can change any subset
// atomically.
type Update struct {
	Name            *string `json:"name"`
	PersonnelNumber *string `json:"personnel_number"`
	Project         *string `json:"project"`
	Location        *string `json:"location"`
	SigningDate     *string `json:"signing_date"`
	Country         *string `json:"country"`
	DepartureDate   *string `json:"departure_date"`
	ReturnDate      *string `json:"return_date"`
	FullDays        *string `json:"full_days"`
	TravelDays      *string `json:"travel_days"`
	Overnights      *string `json:"overnights"`
	RateFull        *string `json:"rate_full"`
	RatePartial     *string `json:"rate_partial"`
	RateOvernight   *string `json:"rate_overnight"`
}
