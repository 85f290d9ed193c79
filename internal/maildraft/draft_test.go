package maildraft

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemo-maschinenbau/reisekosten/internal/form"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		name string
		doc  form.Document
		want string
	}{
		{
			"all parts",
			form.Document{Name: "Erika Mustermann", Project: "P-1234"},
			"Erika Mustermann_P-1234_Reisekostenvorschuss",
		},
		{
			"missing project",
			form.Document{Name: "Erika Mustermann"},
			"Erika Mustermann_Reisekostenvorschuss",
		},
		{
			"missing name",
			form.Document{Project: "P-1234"},
			"P-1234_Reisekostenvorschuss",
		},
		{"empty form", form.Document{}, "Reisekostenvorschuss"},
		{
			"whitespace counts as empty",
			form.Document{Name: "  ", Project: "\t"},
			"Reisekostenvorschuss",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subject(tt.doc))
		})
	}
}

func TestBodySectionOrder(t *testing.T) {
	doc := form.Document{
		Name:            "Erika Mustermann",
		PersonnelNumber: "4711",
		Project:         "P-1234",
		Location:        "Niederkassel",
		SigningDate:     "2025-03-14",
		DepartureDate:   "2025-03-10",
		ReturnDate:      "2025-03-12",
	}
	body := Body(doc)

	sections := []string{
		"Sehr geehrte Damen und Herren,",
		"Mitarbeiter- & Auftragsdaten",
		"Name: Erika Mustermann",
		"Personalnummer: 4711",
		"Projekt / Auftrags-Nr.: P-1234",
		"Reisezeit",
		"Anreisetag: 2025-03-10",
		"Rückreisetag: 2025-03-12",
		"Ort, Datum",
		"Ort: Niederkassel",
		"Datum: 2025-03-14",
		"Mit freundlichen Grüßen",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(body, section)
		require.GreaterOrEqual(t, idx, 0, "section %q missing", section)
		assert.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}
	assert.True(t, strings.HasSuffix(body, "Erika Mustermann"))
}

// The draft must read exactly the fields the exporters read; here that
// means the raw snapshot values appear verbatim, not reformatted ones.
func TestBodyUsesSnapshotVerbatim(t *testing.T) {
	doc := form.Document{DepartureDate: "2025-03-10"}
	assert.Contains(t, Body(doc), "Anreisetag: 2025-03-10")
}

func TestMailto(t *testing.T) {
	doc := form.Document{Name: "Erika Mustermann", Project: "P-1234"}
	link := Mailto(doc)

	require.True(t, strings.HasPrefix(link, "mailto:?subject="))
	assert.Contains(t, link, "&body=")
	assert.Less(t, strings.Index(link, "subject="), strings.Index(link, "&body="))

	// Mail clients decode mailto per RFC 6068, where "+" is literal.
	// Spaces must appear as %20 and never as "+".
	assert.Contains(t, link, "Erika%20Mustermann_Reisekostenvorschuss")
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "Sehr%20geehrte%20Damen%20und%20Herren%2C")

	unescaped, err := url.PathUnescape(link)
	require.NoError(t, err)
	assert.Contains(t, unescaped, "subject="+Subject(doc))
	assert.Contains(t, unescaped, "body="+Body(doc))
}
