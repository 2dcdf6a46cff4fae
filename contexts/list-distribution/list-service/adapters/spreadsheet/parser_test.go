package spreadsheet

import (
	"context"
	"errors"
	"strings"
	"testing"

	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
	"agentlists/contexts/list-distribution/list-service/domain/services"
	"agentlists/contexts/list-distribution/list-service/ports"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSVStripsBOMAndSkipsBlankRows(t *testing.T) {
	input := "\xEF\xBB\xBFfirstName , phone,notes\nAda,555-0101,vip\n,,\nGrace,555-0102\n"
	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, entities.RawRow{"firstName": "Ada", "phone": "555-0101", "notes": "vip"}, rows[0])

	_, hasNotes := rows[1]["notes"]
	assert.False(t, hasNotes)
	assert.Equal(t, "Grace", rows[1]["firstName"])
}

func TestBlankRowsDoNotCountTowardValidationRows(t *testing.T) {
	input := "firstName,phone\nAda,555-0101\n , \n\nGrace,call me\n"
	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, err = services.Validate(services.NormalizeAll(rows))
	require.ErrorIs(t, err, domainerrors.ErrInvalidPhoneFormat)
	var rowErr *domainerrors.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
}

func TestParseCSVHeaderOnly(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("firstName,phone\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseWorkbookFirstSheet(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"FirstName", "Phone", "Notes"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{"Ada", "5550101", "vip"}))
	require.NoError(t, book.SetSheetRow(sheet, "A3", &[]any{"Grace", "5550102"}))
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ParseWorkbook(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", rows[0]["FirstName"])
	assert.Equal(t, "5550101", rows[0]["Phone"])
	assert.Equal(t, "Grace", rows[1]["FirstName"])
}

func TestParseWorkbookRejectsGarbage(t *testing.T) {
	_, err := ParseWorkbook(strings.NewReader("definitely not a zip archive"))
	require.ErrorIs(t, err, domainerrors.ErrFileParseFailed)
}

func TestParserReadsStagedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/stage/a.csv", []byte("phone,firstname\n1,Ada\n"), 0o600))

	parser := NewParser(fs)
	rows, err := parser.Parse(context.Background(), ports.StagedFile{Path: "/stage/a.csv"}, ports.FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada", rows[0]["firstname"])

	_, err = parser.Parse(context.Background(), ports.StagedFile{Path: "/stage/a.csv"}, ports.SpreadsheetFormat("ods"))
	require.ErrorIs(t, err, domainerrors.ErrUnsupportedFileType)
}
