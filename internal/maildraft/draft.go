// Package maildraft builds the subject, body, and mailto link for the
// email a user sends together with the exported form. It reads the same
// form snapshot the exporters read, so the draft and the document are
// always in agreement.
package maildraft

import (
	"net/url"
	"strings"

	"github.com/lemo-maschinenbau/reisekosten/internal/form"
)

// BaseLabel is the fixed last subject segment and the document name in
// the greeting line.
const BaseLabel = "Reisekostenvorschuss"

// Subject joins name, project, and the base label with underscores,
// leaving out whatever is still empty. An entirely empty form yields
// the base label alone.
func Subject(doc form.Document) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{strings.TrimSpace(doc.Name), strings.TrimSpace(doc.Project), BaseLabel} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_")
}

// Body assembles the fixed German mail text. Section order matches the
// printed form: employee data, travel dates, place and date, closing
// with the sender's name.
func Body(doc form.Document) string {
	var b strings.Builder
	b.WriteString("Sehr geehrte Damen und Herren,\n\n")
	b.WriteString("anbei übersende ich den ausgefüllten Reisekostenvorschuss.\n\n")

	b.WriteString("Mitarbeiter- & Auftragsdaten\n")
	b.WriteString("Name: " + doc.Name + "\n")
	b.WriteString("Personalnummer: " + doc.PersonnelNumber + "\n")
	b.WriteString("Projekt / Auftrags-Nr.: " + doc.Project + "\n\n")

	b.WriteString("Reisezeit\n")
	b.WriteString("Anreisetag: " + doc.DepartureDate + "\n")
	b.WriteString("Rückreisetag: " + doc.ReturnDate + "\n\n")

	b.WriteString("Ort, Datum\n")
	b.WriteString("Ort: " + doc.Location + "\n")
	b.WriteString("Datum: " + doc.SigningDate + "\n\n")

	b.WriteString("Mit freundlichen Grüßen\n")
	b.WriteString(doc.Name)
	return b.String()
}

// Mailto renders the draft as a mailto URL without a recipient, the
// form hand-off a mail client opens as a prefilled message. Mailto
// URIs carry percent-encoded text, not form encoding: a "+" would
// reach the mail client as a literal plus sign, so spaces must be
// written as %20.
func Mailto(doc form.Document) string {
	return "mailto:?subject=" + encodeComponent(Subject(doc)) +
		"&body=" + encodeComponent(Body(doc))
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
