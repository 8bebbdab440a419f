package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/invoicekit/fapiao/internal/entity"
)

// Service produces XLSX bytes from extracted invoice records.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportInvoicesXLSX returns an XLSX workbook (as bytes) with one flat row
// per record. Only successful records reach this point; a file with zero
// parsed pages never appears in the export.
func (s *Service) ExportInvoicesXLSX(records []entity.InvoiceRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "发票"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, rec := range records {
		for colIdx, v := range RowFromRecord(rec) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 38) // id
	_ = f.SetColWidth(sheet, "B", "B", 28) // file name
	_ = f.SetColWidth(sheet, "C", "D", 22) // code / number
	_ = f.SetColWidth(sheet, "E", "F", 18) // date / type
	_ = f.SetColWidth(sheet, "G", "H", 32) // parties
	_ = f.SetColWidth(sheet, "I", "K", 14) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
