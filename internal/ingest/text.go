package ingest

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/stockiq/backend-go/internal/table"
)

func decodeCSV(path string) (*table.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, userErr(ReasonUnreadableCSV, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, userErr(ReasonUnreadableCSV, err)
	}
	if len(records) < 1 || len(records[0]) == 0 {
		return nil, userErr(ReasonEmptyFile, nil)
	}

	return &table.Document{
		Kind:     table.KindTabular,
		FileType: "csv",
		Table:    table.New(records[0], records[1:]),
	}, nil
}

// decodePDF extracts plain text; the intent classifier is the only stage
// that looks at text-only documents.
func decodePDF(path string) (*table.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, userErr(ReasonUnreadablePDF, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return nil, userErr(ReasonUnreadablePDF, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, userErr(ReasonUnreadablePDF, err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return nil, userErr(ReasonEmptyPDF, nil)
	}

	return &table.Document{
		Kind:     table.KindText,
		FileType: "pdf",
		Text:     strings.ToLower(text),
	}, nil
}

func decodeText(path string) (*table.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, userErr(ReasonFileNotFound, err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return nil, userErr(ReasonEmptyFile, nil)
	}
	return &table.Document{
		Kind:     table.KindText,
		FileType: "text",
		Text:     strings.ToLower(text),
	}, nil
}
