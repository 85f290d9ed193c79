package export

import (
	"fmt"
	"strings"
	"time"
)

// Filename builds the generated document name:
// Reisekosten_<Name>_<Projekt>_<YYYY-MM-DD_HH-MM><ext>, with neutral
// placeholders when name or project are still empty.
func Filename(name, project string, now time.Time, ext string) string {
	if name == "" {
		name = "Person"
	}
	if project == "" {
		project = "Projekt"
	}
	timestamp := now.Format("2006-01-02_15-04")
	return fmt.Sprintf("Reisekosten_%s_%s_%s%s",
		sanitize(name), sanitize(project), timestamp, ext)
}

// sanitize keeps free-text fields filesystem-safe.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return '-'
		}
		return r
	}, s)
}
