package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/dkhrutsky/mdskeeper/internal/models"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/records"
)

var exportColumns = []string{"id", "category", "created_at", "title", "notes"}

func headerFor(recs []models.Record) []string {
	return append(append([]string{}, exportColumns...), records.ExtraColumns(recs)...)
}

func rowFor(rec models.Record, extras []string) []string {
	created := ""
	if !rec.CreatedAt.IsZero() {
		created = rec.CreatedAt.Format(models.TimeLayout)
	}
	row := []string{strconv.Itoa(rec.ID), rec.Category, created, rec.Title, rec.Notes}
	for _, col := range extras {
		row = append(row, rec.Extra[col])
	}
	return row
}

func encodeCSV(recs []models.Record) ([]byte, error) {
	extras := records.ExtraColumns(recs)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headerFor(recs)); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, rec := range recs {
		if err := w.Write(rowFor(rec, extras)); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

const sheetName = "data"

func encodeExcel(recs []models.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	extras := records.ExtraColumns(recs)
	if err := writeSheetRow(f, 1, headerFor(recs)); err != nil {
		return nil, err
	}
	for i, rec := range recs {
		if err := writeSheetRow(f, i+2, rowFor(rec, extras)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheetRow(f *excelize.File, row int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("setting cell %s: %w", cell, err)
		}
	}
	return nil
}

// encodeJSON renders an array of flat objects, legacy columns merged in,
// matching the row-per-object shape of the other encoders.
func encodeJSON(recs []models.Record) ([]byte, error) {
	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		created := ""
		if !rec.CreatedAt.IsZero() {
			created = rec.CreatedAt.Format(models.TimeLayout)
		}
		obj := map[string]any{
			"id":         rec.ID,
			"category":   rec.Category,
			"created_at": created,
			"title":      rec.Title,
			"notes":      rec.Notes,
		}
		for col, v := range rec.Extra {
			obj[col] = v
		}
		out = append(out, obj)
	}
	return json.Marshal(out)
}
