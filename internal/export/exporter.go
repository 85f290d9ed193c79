package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/lemo-maschinenbau/reisekosten/internal/form"
)

// Config holds exporter settings.
type Config struct {
	// OutputDir is where generated documents are written
	OutputDir string

	// CompanyName appears in the document head
	CompanyName string
}

// Exporter renders form snapshots and writes the resulting documents
// under the configured output directory.
type Exporter struct {
	outputDir string
	pdf       *PDFRenderer
	workbook  *WorkbookRenderer
	logger    *zap.Logger
}

// NewExporter prepares the output directory and the two renderers. An
// unusable output directory is a startup failure, not something to
// discover on the first export.
func NewExporter(cfg Config, logger *zap.Logger) (*Exporter, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Exporter{
		outputDir: cfg.OutputDir,
		pdf:       NewPDFRenderer(cfg.CompanyName, logger),
		workbook:  NewWorkbookRenderer(cfg.CompanyName, logger),
		logger:    logger,
	}, nil
}

// ExportPDF renders the snapshot as the printable advance form, saves
// it, and returns the generated file name plus the document bytes.
func (e *Exporter) ExportPDF(doc form.Document, now time.Time) (string, []byte, error) {
	data, err := e.pdf.Render(doc, now)
	if err != nil {
		return "", nil, err
	}
	name := Filename(doc.Name, doc.Project, now, ".pdf")
	if err := e.save(name, data); err != nil {
		return "", nil, err
	}
	return name, data, nil
}

// ExportWorkbook renders the snapshot as an xlsx workbook, saves it,
// and returns the generated file name plus the document bytes.
func (e *Exporter) ExportWorkbook(doc form.Document, now time.Time) (string, []byte, error) {
	data, err := e.workbook.Render(doc, now)
	if err != nil {
		return "", nil, err
	}
	name := Filename(doc.Name, doc.Project, now, ".xlsx")
	if err := e.save(name, data); err != nil {
		return "", nil, err
	}
	return name, data, nil
}

func (e *Exporter) save(name string, data []byte) error {
	path := filepath.Join(e.outputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	e.logger.Info("document exported",
		zap.String("file", path),
		zap.Int("bytes", len(data)))
	return nil
}
