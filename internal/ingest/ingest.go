// Package ingest is the decode boundary of the pipeline: it turns an
// uploaded file into either a labeled table or a lower-cased text blob.
// Downstream stages never see file bytes.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockiq/backend-go/internal/table"
)

// Reasons surfaced to the user when a file cannot be decoded. Message
// content is part of the contract; callers return these verbatim.
const (
	ReasonUnsupportedFormat = "Unsupported file format. Please upload an Excel, CSV, or PDF file containing inventory or sales data."
	ReasonFileNotFound      = "File not found. Please select a valid file."
	ReasonUnreadableExcel   = "Unable to read the Excel file. Please ensure it is not corrupted or password-protected."
	ReasonUnreadableCSV     = "Unable to read the CSV file. Please ensure it is properly formatted."
	ReasonUnreadablePDF     = "Unable to read the PDF file. Please ensure it is not corrupted or password-protected."
	ReasonEmptyFile         = "The file appears to be empty. Please upload a file with data."
	ReasonEmptyPDF          = "The PDF file appears to be empty or contains only images."
)

// UserError is a decode failure with a user-facing reason. The underlying
// cause, if any, is kept for logs only.
type UserError struct {
	Reason string
	Err    error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *UserError) Unwrap() error { return e.Err }

func userErr(reason string, err error) *UserError {
	return &UserError{Reason: reason, Err: err}
}

// tabular extensions are decoded into tables; text extensions yield a text
// blob that only the intent classifier looks at.
var (
	tabularExtensions = map[string]string{
		".xlsx": "excel",
		".xls":  "excel",
		".csv":  "csv",
	}
	textExtensions = map[string]string{
		".pdf": "pdf",
		".txt": "text",
	}
)

// DetectKind gates on the file extension before any content is read.
func DetectKind(path string) (table.DocumentKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := tabularExtensions[ext]; ok {
		return table.KindTabular, nil
	}
	if _, ok := textExtensions[ext]; ok {
		return table.KindText, nil
	}
	return "", userErr(ReasonUnsupportedFormat, nil)
}

// Decode reads the file at path into a Document. All returned errors are
// *UserError values carrying a user-facing reason.
func Decode(path string) (*table.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, userErr(ReasonFileNotFound, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".xlsx" || ext == ".xls":
		return decodeXLSX(path)
	case ext == ".csv":
		return decodeCSV(path)
	case ext == ".pdf":
		return decodePDF(path)
	case ext == ".txt":
		return decodeText(path)
	}
	return nil, userErr(ReasonUnsupportedFormat, nil)
}
