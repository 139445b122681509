package records

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dkhrutsky/mdskeeper/internal/filex"
	"github.com/dkhrutsky/mdskeeper/internal/logging"
	"github.com/dkhrutsky/mdskeeper/internal/models"
)

// baseColumns is the current table schema; anything else found in a file is
// a legacy column and survives through Record.Extra.
var baseColumns = []string{"id", "category", "created_at", "title", "notes"}

// CSVRepository stores one "<uid>_records.csv" file per user inside the
// data directory. Unreadable tables degrade to an empty sequence.
type CSVRepository struct {
	dataDir string
	logger  logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCSVRepository(dataDir string, logger logging.Logger) *CSVRepository {
	return &CSVRepository{dataDir: dataDir, logger: logger, locks: map[string]*sync.Mutex{}}
}

func (r *CSVRepository) tablePath(userID string) string {
	return filepath.Join(r.dataDir, userID+"_records.csv")
}

// userLock returns the mutex serializing writers of one user's table.
func (r *CSVRepository) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

func (r *CSVRepository) LoadTable(ctx context.Context, userID string) ([]models.Record, error) {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()
	return r.loadLocked(ctx, userID)
}

func (r *CSVRepository) SaveTable(ctx context.Context, userID string, recs []models.Record) error {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()
	return r.saveLocked(userID, recs)
}

func (r *CSVRepository) Update(ctx context.Context, userID string, fn func(recs []models.Record) ([]models.Record, error)) error {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()

	recs, err := r.loadLocked(ctx, userID)
	if err != nil {
		return err
	}
	recs, err = fn(recs)
	if err != nil {
		return err
	}
	return r.saveLocked(userID, recs)
}

func (r *CSVRepository) DeleteTable(ctx context.Context, userID string) error {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()

	if err := os.Remove(r.tablePath(userID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing table for %s: %w", userID, err)
	}
	return nil
}

func (r *CSVRepository) loadLocked(ctx context.Context, userID string) ([]models.Record, error) {
	data, err := os.ReadFile(r.tablePath(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("reading table for %s: %w", userID, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		r.logger.Warn(ctx, "record table unreadable, starting empty", "uid", userID, "error", err.Error())
		return []models.Record{}, nil
	}
	if len(rows) == 0 {
		return []models.Record{}, nil
	}

	header := rows[0]
	recs := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := models.Record{}
		for i, col := range header {
			if i >= len(row) {
				break
			}
			val := row[i]
			switch col {
			case "id":
				rec.ID = parseID(val)
			case "category":
				rec.Category = val
			case "created_at":
				rec.CreatedAt = parseCreatedAt(val)
			case "title":
				rec.Title = val
			case "notes":
				rec.Notes = val
			default:
				// Union-of-columns: legacy fields survive round trips.
				if rec.Extra == nil {
					rec.Extra = map[string]string{}
				}
				rec.Extra[col] = val
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (r *CSVRepository) saveLocked(userID string, recs []models.Record) error {
	extras := ExtraColumns(recs)
	header := append(append([]string{}, baseColumns...), extras...)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range recs {
		row := []string{
			strconv.Itoa(rec.ID),
			rec.Category,
			formatCreatedAt(rec.CreatedAt),
			rec.Title,
			rec.Notes,
		}
		for _, col := range extras {
			row = append(row, rec.Extra[col])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	if err := filex.WriteFileAtomic(r.tablePath(userID), buf.Bytes()); err != nil {
		return fmt.Errorf("writing table for %s: %w", userID, err)
	}
	return nil
}

// ExtraColumns returns the sorted union of Extra keys across recs. Both the
// CSV backend and the export encoders use it to materialize legacy columns.
func ExtraColumns(recs []models.Record) []string {
	seen := map[string]struct{}{}
	for _, rec := range recs {
		for col := range rec.Extra {
			seen[col] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// parseID tolerates the float form pandas uses for integer columns that
// ever contained a missing value ("3.0").
func parseID(s string) int {
	if id, err := strconv.Atoi(s); err == nil {
		return id
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(models.TimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.TimeLayout)
}
