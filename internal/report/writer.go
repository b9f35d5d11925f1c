// Package report serializes an ordered row table to a spreadsheet file.
package report

import (
	"path/filepath"
	"strings"
)

// Writer writes a row table to a destination path and returns the path
// actually written.
type Writer interface {
	Write(rows [][]string, path string) (string, error)
}

// ForPath picks a writer from the destination's file extension. Unknown
// extensions get the xlsx writer, matching the export's default format.
func ForPath(path string) Writer {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return CSVWriter{}
	}
	return XLSXWriter{}
}
