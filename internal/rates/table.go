// Package rates provides the read-only per-diem rate table keyed by
// country or city, as published in the yearly BMF circular.
package rates

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed bmf2025.yaml
var defaultTable []byte

// RateSet holds the three daily allowances for one table entry.
type RateSet struct {
	Full      decimal.Decimal `json:"full"`
	Partial   decimal.Decimal `json:"partial"`
	Overnight decimal.Decimal `json:"overnight"`
}

// Table is an immutable country/city -> RateSet mapping. It also fixes
// the presentation order of its keys, sorted with German collation so
// umlauts land where a German reader expects them.
type Table struct {
	entries   map[string]RateSet
	countries []string
}

type rawRate struct {
	Full      float64 `yaml:"full"`
	Partial   float64 `yaml:"partial"`
	Overnight float64 `yaml:"overnight"`
}

type rateFile struct {
	Rates map[string]rawRate `yaml:"rates"`
}

// Load reads a rate table from the YAML file at path. An empty path
// loads the embedded default table, so the service runs without any
// external data file.
func Load(path string) (*Table, error) {
	data := defaultTable
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rate table %s: %w", path, err)
		}
	}
	return parse(data)
}

func parse(data []byte) (*Table, error) {
	var file rateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rate table: %w", err)
	}
	if len(file.Rates) == 0 {
		return nil, fmt.Errorf("rate table contains no entries")
	}

	entries := make(map[string]RateSet, len(file.Rates))
	countries := make([]string, 0, len(file.Rates))
	for name, r := range file.Rates {
		entries[name] = RateSet{
			Full:      decimal.NewFromFloat(r.Full),
			Partial:   decimal.NewFromFloat(r.Partial),
			Overnight: decimal.NewFromFloat(r.Overnight),
		}
		countries = append(countries, name)
	}

	collate.New(language.German).SortStrings(countries)

	return &Table{entries: entries, countries: countries}, nil
}

// Lookup returns the rates for the given key. ok is false for an empty
// or unknown key; the caller blanks the rate fields instead of failing.
func (t *Table) Lookup(key string) (RateSet, bool) {
	rs, ok := t.entries[key]
	return rs, ok
}

// Countries returns the table keys in presentation order.
func (t *Table) Countries() []string {
	out := make([]string, len(t.countries))
	copy(out, t.countries)
	return out
}

// Len reports the number of table entries.
func (t *Table) Len() int {
	return len(t.entries)
}
