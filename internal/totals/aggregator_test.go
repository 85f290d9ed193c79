package totals

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lemo-maschinenbau/reisekosten/internal/ledger"
)

func entry(desc, amount string) ledger.Entry {
	return ledger.Entry{ID: uuid.New(), Description: desc, Amount: amount}
}

func TestComputeAllBlank(t *testing.T) {
	s := Compute(DayFields{}, RateFields{}, nil)

	assert.True(t, s.Meals.IsZero())
	assert.True(t, s.Overnights.IsZero())
	assert.True(t, s.OtherCosts.IsZero())
	assert.True(t, s.Total.IsZero())
}

// Three-day trip at the domestic rates: one full day plus two travel
// days of meals, two overnight stays.
func TestComputeDomesticThreeDayTrip(t *testing.T) {
	s := Compute(
		DayFields{Full: "1", Travel: "2", Overnights: "2"},
		RateFields{Full: "28,00", Partial: "14,00", Overnight: "20,00"},
		nil,
	)

	assert.Equal(t, "56", s.Meals.String())
	assert.Equal(t, "40", s.Overnights.String())
	assert.Equal(t, "96", s.Total.String())
}

func TestComputeOtherCostsLeniency(t *testing.T) {
	s := Compute(DayFields{}, RateFields{}, []ledger.Entry{
		entry("Taxi", "23,50"),
		entry("Parking", ""),
	})

	assert.Equal(t, "23.5", s.OtherCosts.String())
	assert.Equal(t, "23.5", s.Total.String())
}

func TestComputeUnparsableFieldsCountAsZero(t *testing.T) {
	s := Compute(
		DayFields{Full: "x", Travel: "2", Overnights: ""},
		RateFields{Full: "28,00", Partial: "nope", Overnight: "20,00"},
		[]ledger.Entry{entry("", "abc")},
	)

	// Only fields that parse contribute: travel days times a broken
	// partial rate is zero, everything else is zero too.
	assert.True(t, s.Meals.IsZero())
	assert.True(t, s.Total.IsZero())
}

func TestTotalIsExactSumOfParts(t *testing.T) {
	tests := []struct {
		name  string
		days  DayFields
		rates RateFields
		costs []ledger.Entry
	}{
		{"all blank", DayFields{}, RateFields{}, nil},
		{
			"fractional rates",
			DayFields{Full: "3", Travel: "2", Overnights: "4"},
			RateFields{Full: "47,50", Partial: "31,70", Overnight: "120,30"},
			[]ledger.Entry{entry("Taxi", "23,50"), entry("Maut", "3,10")},
		},
		{
			"costs only",
			DayFields{},
			RateFields{},
			[]ledger.Entry{entry("A", "0,10"), entry("B", "0,20"), entry("C", "0,30")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(tt.days, tt.rates, tt.costs)
			assert.True(t, s.Total.Equal(s.Meals.Add(s.Overnights).Add(s.OtherCosts)),
				"total %s != %s + %s + %s", s.Total, s.Meals, s.Overnights, s.OtherCosts)
		})
	}
}

func TestComputeManualOverrides(t *testing.T) {
	// The user can overwrite the auto-filled day counts by hand.
	s := Compute(
		DayFields{Full: "5", Travel: "1", Overnights: "0"},
		RateFields{Full: "28,00", Partial: "14,00", Overnight: "20,00"},
		nil,
	)

	assert.Equal(t, "154", s.Meals.String())
	assert.True(t, s.Overnights.IsZero())
}
