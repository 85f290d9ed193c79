// Package ledger holds the ordered list of "sonstige Kosten" rows a
// user adds to the form.
package ledger

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lemo-maschinenbau/reisekosten/internal/money"
)

// ErrNoSuchEntry is returned when an entry id does not match any row.
var ErrNoSuchEntry = errors.New("no such cost entry")

// Entry is one extra-cost row. The amount stays raw field text so a
// half-typed value survives round trips; parsing happens at summation.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
}

// Empty reports whether both fields are blank. Exports skip such rows.
func (e Entry) Empty() bool {
	return e.Description == "" && e.Amount == ""
}

// Ledger is the ordered, mutable collection of extra-cost rows.
// Insertion order is display order. A fresh or reset ledger always
// holds exactly one empty row.
type Ledger struct {
	entries []Entry
}

// New returns a ledger holding a single empty row.
func New() *Ledger {
	l := &Ledger{}
	l.Add()
	return l
}

// Add appends an empty row and returns it.
func (l *Ledger) Add() Entry {
	e := Entry{ID: uuid.New()}
	l.entries = append(l.entries, e)
	return e
}

// Remove deletes the row with the given id. The order of the remaining
// rows is preserved.
func (l *Ledger) Remove(id uuid.UUID) error {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return nil
		}
	}
	return ErrNoSuchEntry
}

// UpdateDescription replaces the description text of the given row.
func (l *Ledger) UpdateDescription(id uuid.UUID, text string) error {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Description = text
			return nil
		}
	}
	return ErrNoSuchEntry
}

// UpdateAmount replaces the raw amount text of the given row.
func (l *Ledger) UpdateAmount(id uuid.UUID, text string) error {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Amount = text
			return nil
		}
	}
	return ErrNoSuchEntry
}

// Snapshot returns a copy of the rows in display order.
func (l *Ledger) Snapshot() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Reset discards all rows and restores the initial single empty row.
func (l *Ledger) Reset() {
	l.entries = l.entries[:0]
	l.Add()
}

// Sum adds up the parsed amounts of the given rows. Rows whose amount
// is empty or unparsable contribute zero.
func Sum(entries []Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(money.Parse(e.Amount))
	}
	return sum
}
