// internal/statement/statement_test.go
package statement

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"lena-bank/internal/domain"
	"lena-bank/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func fixtures() (*domain.Account, []domain.LedgerEntry) {
	ann := &domain.Account{Number: 1001, Handle: "ann.lee@0001"}
	bob := &domain.Account{Number: 2002, Handle: "bob.ray@0002"}
	at := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

	out := domain.NewTransferEntry(ann, bob, dec("30"), "Transfer to bob.ray@0002")
	in := domain.NewTransferEntry(bob, ann, dec("12.5"), "Transfer to ann.lee@0001")
	dep := domain.NewDepositEntry(ann, dec("100"), "Deposit")
	for _, e := range []*domain.LedgerEntry{out, in, dep} {
		e.Timestamp = at
	}
	return ann, []domain.LedgerEntry{*out, *in, *dep}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatCSV, "CSV": FormatCSV, " xlsx ": FormatXLSX} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestRowDirection(t *testing.T) {
	ann, entries := fixtures()

	outgoing := Row(ann, entries[0])
	assert.Equal(t, []string{"transfer", "bob.ray@0002", "30.00", ""}, []string{outgoing[2], outgoing[4], outgoing[5], outgoing[6]})
	assert.Equal(t, "2026-05-04 09:30:00", outgoing[1])

	incoming := Row(ann, entries[1])
	assert.Equal(t, []string{"bob.ray@0002", "", "12.50"}, []string{incoming[4], incoming[5], incoming[6]})

	deposit := Row(ann, entries[2])
	assert.Equal(t, "", deposit[4])
	assert.Equal(t, "100.00", deposit[6])
}

func TestWriteCSV(t *testing.T) {
	ann, entries := fixtures()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, ann, entries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, entries[0].Reference.String(), records[1][0])
	assert.Equal(t, "Deposit", records[3][3])
}

func TestFormatAsExcel(t *testing.T) {
	ann, entries := fixtures()

	data, err := FormatAsExcel(ann, entries)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, sheetName, f.GetSheetName(0))
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "30.00", rows[1][5])
	assert.Equal(t, "12.50", rows[2][6])
}

func TestFormatMetadata(t *testing.T) {
	ann, _ := fixtures()
	assert.Equal(t, "statement-1001.xlsx", FormatXLSX.Filename(ann))
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
}
