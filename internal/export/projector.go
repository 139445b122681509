// Package export projects a filtered record set into the three download
// encodings: CSV, spreadsheet, and JSON. All encoders receive the same
// filtered sequence; an empty sequence produces no files at all.
package export

import (
	"github.com/dkhrutsky/mdskeeper/internal/common"
	"github.com/dkhrutsky/mdskeeper/internal/models"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/records"
)

// Bundle holds the three encodings of one filtered record set.
type Bundle struct {
	CSV   []byte
	Excel []byte
	JSON  []byte
	Count int
}

// Project applies f to recs and returns the filtered sequence with its
// summary count.
func Project(recs []models.Record, f records.Filter) ([]models.Record, int) {
	filtered := records.Apply(recs, f)
	return filtered, len(filtered)
}

// Build encodes the filtered sequence in all three formats. An empty
// sequence yields ErrorNothingToExport and no Bundle, so callers surface a
// "nothing to export" state instead of offering empty downloads.
func Build(filtered []models.Record) (*Bundle, error) {
	if len(filtered) == 0 {
		return nil, common.ErrorNothingToExport
	}

	csvData, err := encodeCSV(filtered)
	if err != nil {
		return nil, err
	}
	excelData, err := encodeExcel(filtered)
	if err != nil {
		return nil, err
	}
	jsonData, err := encodeJSON(filtered)
	if err != nil {
		return nil, err
	}

	return &Bundle{CSV: csvData, Excel: excelData, JSON: jsonData, Count: len(filtered)}, nil
}
