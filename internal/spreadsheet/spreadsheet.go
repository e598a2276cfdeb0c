// Package spreadsheet writes tables of text cells as spreadsheet documents.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"
)

// Format is a spreadsheet file format.
type Format string

const (
	// ODS is the OpenDocument spreadsheet format.
	ODS Format = "ods"
	// XLSX is the Office Open XML spreadsheet format.
	XLSX Format = "xlsx"
)

// ParseFormat returns the format named by s. The empty string selects ODS.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", ODS:
		return ODS, nil
	case XLSX:
		return XLSX, nil
	}
	return "", fmt.Errorf("unknown spreadsheet format %q", s)
}

// ContentType returns the MIME type of documents in the format.
func (f Format) ContentType() string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/vnd.oasis.opendocument.spreadsheet"
	}
}

// Extension returns the file name extension of the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Write writes rows as a single sheet document in the given format.
func Write(w io.Writer, f Format, sheet string, rows [][]string) error {
	switch f {
	case ODS:
		return WriteODS(w, sheet, rows)
	case XLSX:
		return WriteXLSX(w, sheet, rows)
	}
	return fmt.Errorf("unknown spreadsheet format %q", f)
}
