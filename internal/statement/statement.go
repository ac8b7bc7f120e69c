// internal/statement/statement.go

// Package statement renders an account's ledger entries as a downloadable statement.
package statement

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"lena-bank/internal/domain"
	"lena-bank/internal/util"

	"github.com/xuri/excelize/v2"
)

// Format is a statement file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	sheetName  = "Statement"
)

// Header lists the statement columns in order.
var Header = []string{"reference", "datetime", "type", "description", "counterparty", "debit", "credit"}

// ParseFormat reads a format name; the empty string selects CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", util.Invalid("format", fmt.Sprintf("unsupported statement format %q", s))
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename returns the suggested download name for an account's statement.
func (f Format) Filename(account *domain.Account) string {
	return fmt.Sprintf("statement-%s.%s", domain.FormatAccountNumber(account.Number), f)
}

// Row renders one ledger entry from the point of view of account.
// Money leaving the account is a debit, money arriving is a credit.
func Row(account *domain.Account, e domain.LedgerEntry) []string {
	row := make([]string, len(Header))
	row[0] = e.Reference.String()
	row[1] = e.Timestamp.UTC().Format(timeLayout)
	row[2] = string(e.Kind)
	row[3] = e.Description

	outgoing := e.SourceAccount != nil && *e.SourceAccount == account.Number
	switch {
	case outgoing && e.DestinationHandle != nil:
		row[4] = *e.DestinationHandle
	case !outgoing && e.SourceHandle != nil:
		row[4] = *e.SourceHandle
	}
	if outgoing {
		row[5] = e.Amount.StringFixed(2)
	} else {
		row[6] = e.Amount.StringFixed(2)
	}
	return row
}

// Write renders entries in the given format to w.
func Write(w io.Writer, f Format, account *domain.Account, entries []domain.LedgerEntry) error {
	switch f {
	case FormatXLSX:
		data, err := FormatAsExcel(account, entries)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatCSV:
		return WriteCSV(w, account, entries)
	}
	return util.Invalid("format", fmt.Sprintf("unsupported statement format %q", f))
}

// WriteCSV writes the statement as CSV, header first.
func WriteCSV(w io.Writer, account *domain.Account, entries []domain.LedgerEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write(Row(account, e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatAsExcel renders the statement as an .xlsx workbook with a bold header row.
func FormatAsExcel(account *domain.Account, entries []domain.LedgerEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, name := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(Header), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for rowIdx, e := range entries {
		for colIdx, value := range Row(account, e) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
			}
		}
	}

	// Approximate auto-fit.
	widths := []float64{38, 20, 10, 40, 24, 14, 14}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
