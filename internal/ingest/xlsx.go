package ingest

import (
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/stockiq/backend-go/internal/table"
)

// decodeXLSX reads every non-empty sheet of an XLSX workbook. Sheets whose
// header row matches the first sheet's header are concatenated; the rest
// are skipped with a warning.
func decodeXLSX(path string) (*table.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, userErr(ReasonUnreadableExcel, err)
	}
	defer f.Close()

	var (
		header []string
		data   [][]string
	)

	for _, sheet := range f.GetSheetList() {
		rows, err := readSheet(f, sheet)
		if err != nil {
			return nil, userErr(ReasonUnreadableExcel, err)
		}
		if len(rows) < 1 || len(rows[0]) == 0 {
			continue
		}
		if header == nil {
			header = rows[0]
			data = append(data, rows[1:]...)
			continue
		}
		if !sameHeader(header, rows[0]) {
			log.Warn().Str("sheet", sheet).Msg("sheet header differs from first sheet, skipping")
			continue
		}
		data = append(data, rows[1:]...)
	}

	if header == nil || len(data) == 0 {
		return nil, userErr(ReasonEmptyFile, nil)
	}

	return &table.Document{
		Kind:     table.KindTabular,
		FileType: "excel",
		Table:    table.New(header, data),
	}, nil
}

func readSheet(f *excelize.File, sheet string) ([][]string, error) {
	it, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var rows [][]string
	for it.Next() {
		record, err := it.Columns()
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return rows, nil
}

func sameHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
