package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"auditlog/internal/domain"
)

const sheetName = "Usage Report"

// UsageSource yields the rows the exporter renders. Satisfied by *Client.
type UsageSource interface {
	FetchByProvider(ctx context.Context, from, to string) ([]domain.ProviderUsage, error)
}

// Exporter renders a usage report spreadsheet for a calendar date range. It
// fetches everything before touching the filesystem, so a failed fetch never
// leaves a partial file behind. Concurrent runs with different date ranges
// write distinct files; directory creation is idempotent.
type Exporter struct {
	source    UsageSource
	outputDir string
}

// NewExporter builds an Exporter writing into outputDir.
func NewExporter(source UsageSource, outputDir string) *Exporter {
	return &Exporter{source: source, outputDir: outputDir}
}

// Export fetches the usage rows for [from, to] and writes the spreadsheet.
// It returns the path of the written file.
func (e *Exporter) Export(ctx context.Context, from, to string) (string, error) {
	rows, err := e.source.FetchByProvider(ctx, from, to)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	_ = f.SetColWidth(sheetName, "A", "A", 40)
	_ = f.SetColWidth(sheetName, "B", "B", 50)
	_ = f.SetColWidth(sheetName, "C", "C", 20)
	if err := f.SetSheetRow(sheetName, "A1", &[]any{"Provider", "Source", "Message Count"}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	var totalCount int64
	providers := make(map[string]struct{})
	line := 2
	for _, row := range rows {
		totalCount += row.MessageCount
		providers[row.Provider] = struct{}{}
		cell := fmt.Sprintf("A%d", line)
		if err := f.SetSheetRow(sheetName, cell, &[]any{row.Provider, row.Source, row.MessageCount}); err != nil {
			return "", fmt.Errorf("write row %d: %w", line, err)
		}
		line++
	}

	// Blank spacer, then the two trailer rows.
	line++
	if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", line), &[]any{"Total Messages", "", totalCount}); err != nil {
		return "", fmt.Errorf("write total trailer: %w", err)
	}
	line++
	if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", line), &[]any{"Unique Providers", "", int64(len(providers))}); err != nil {
		return "", fmt.Errorf("write providers trailer: %w", err)
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(e.outputDir, FileName(from, to))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return path, nil
}

// FileName is the deterministic spreadsheet name for a date range.
func FileName(from, to string) string {
	return fmt.Sprintf("usage-report-%s-to-%s.xlsx", from, to)
}
