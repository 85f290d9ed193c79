// Package totals derives the reimbursement sums shown on the form and
// written into the exported document.
package totals

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lemo-maschinenbau/reisekosten/internal/ledger"
	"github.com/lemo-maschinenbau/reisekosten/internal/money"
)

// DayFields carries the day counts as raw field text. They arrive as
// text because the form lets the user override the auto-computed values
// by hand.
type DayFields struct {
	Full       string
	Travel     string
	Overnights string
}

// RateFields carries the three per-diem rates as displayed text
// (German number format, possibly edited by hand).
type RateFields struct {
	Full      string
	Partial   string
	Overnight string
}

// Snapshot is the complete set of derived sums. It is recomputed in
// full on every contributing change; nothing updates it incrementally.
type Snapshot struct {
	Meals      decimal.Decimal
	Overnights decimal.Decimal
	OtherCosts decimal.Decimal
	Total      decimal.Decimal
}

// Compute is a pure function of its inputs. Blank or unparsable fields
// count as zero, so a half-filled form still yields consistent sums,
// and Total always equals Meals + Overnights + OtherCosts exactly.
func Compute(days DayFields, rates RateFields, entries []ledger.Entry) Snapshot {
	fullDays := parseCount(days.Full)
	travelDays := parseCount(days.Travel)
	overnights := parseCount(days.Overnights)

	meals := fullDays.Mul(money.Parse(rates.Full)).
		Add(travelDays.Mul(money.Parse(rates.Partial)))
	nights := overnights.Mul(money.Parse(rates.Overnight))
	other := ledger.Sum(entries)

	return Snapshot{
		Meals:      meals,
		Overnights: nights,
		OtherCosts: other,
		Total:      meals.Add(nights).Add(other),
	}
}

// parseCount reads a day-count field. Unlike monetary fields these use
// a plain dot decimal, matching a numeric input widget.
func parseCount(text string) decimal.Decimal {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
