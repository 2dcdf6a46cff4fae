package spreadsheet

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
	"agentlists/contexts/list-distribution/list-service/ports"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser reads staged CSV and workbook files into header-keyed rows. The
// first row is the header. Empty header cells are ignored, and when a header
// repeats the first column wins. Cells missing at the end of a short row are
// absent from the row map. Rows whose cells are all blank are dropped, so the
// row numbers reported by validation count data rows, not file lines.
type Parser struct {
	fs afero.Fs
}

func NewParser(fs afero.Fs) *Parser {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Parser{fs: fs}
}

func (p *Parser) Parse(ctx context.Context, file ports.StagedFile, format ports.SpreadsheetFormat) ([]entities.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := p.fs.Open(file.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch format {
	case ports.FormatCSV:
		return ParseCSV(f)
	case ports.FormatXLSX, ports.FormatXLS:
		return ParseWorkbook(f)
	default:
		return nil, domainerrors.ErrUnsupportedFileType
	}
}

func ParseCSV(r io.Reader) ([]entities.RawRow, error) {
	buffered := bufio.NewReader(r)
	if head, err := buffered.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = buffered.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrFileParseFailed, err)
	}
	return rowsFromGrid(records), nil
}

// ParseWorkbook reads the first sheet of an OOXML workbook. Legacy binary
// .xls content is reported as a parse failure.
func ParseWorkbook(r io.Reader) ([]entities.RawRow, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		if errors.Is(err, excelize.ErrWorkbookFileFormat) {
			return nil, fmt.Errorf("%w: workbook must be saved in xlsx format", domainerrors.ErrFileParseFailed)
		}
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrFileParseFailed, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	grid, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrFileParseFailed, err)
	}
	return rowsFromGrid(grid), nil
}

func rowsFromGrid(grid [][]string) []entities.RawRow {
	if len(grid) == 0 {
		return nil
	}
	headers := make([]string, len(grid[0]))
	seen := make(map[string]bool, len(grid[0]))
	for i, cell := range grid[0] {
		name := strings.TrimSpace(cell)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		headers[i] = name
	}

	rows := make([]entities.RawRow, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		if blankRow(cells) {
			continue
		}
		row := make(entities.RawRow, len(headers))
		for i, header := range headers {
			if header == "" || i >= len(cells) {
				continue
			}
			row[header] = cells[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func blankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var _ ports.SpreadsheetParser = (*Parser)(nil)
