package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/dkhrutsky/mdskeeper/internal/dbx"
	"github.com/dkhrutsky/mdskeeper/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    user_id    TEXT    NOT NULL,
    id         INTEGER NOT NULL,
    category   TEXT    NOT NULL DEFAULT '',
    created_at TEXT    NOT NULL DEFAULT '',
    title      TEXT    NOT NULL DEFAULT '',
    notes      TEXT    NOT NULL DEFAULT '',
    extra      TEXT    NOT NULL DEFAULT '{}',
    PRIMARY KEY (user_id, id)
);
`

// OpenSQLite opens (or creates) the shared record database and applies the
// schema.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return db, nil
}

// SQLiteRepository keeps every user's table in one records relation keyed by
// user id. Saves keep the whole-document discipline: all of the user's rows
// are replaced in a single transaction.
type SQLiteRepository struct {
	db *sql.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, locks: map[string]*sync.Mutex{}}
}

func (r *SQLiteRepository) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

func (r *SQLiteRepository) LoadTable(ctx context.Context, userID string) ([]models.Record, error) {
	query := `SELECT id, category, created_at, title, notes, extra
	          FROM records WHERE user_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("selecting records: %w", err)
	}
	defer rows.Close()

	recs := []models.Record{}
	for rows.Next() {
		var rec models.Record
		var createdAt, extra string
		if err := rows.Scan(&rec.ID, &rec.Category, &createdAt, &rec.Title, &rec.Notes, &extra); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.CreatedAt = parseCreatedAt(createdAt)
		if extra != "" && extra != "{}" {
			if err := json.Unmarshal([]byte(extra), &rec.Extra); err != nil {
				return nil, fmt.Errorf("decoding extra columns: %w", err)
			}
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *SQLiteRepository) SaveTable(ctx context.Context, userID string, recs []models.Record) error {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()
	return r.saveLocked(ctx, userID, recs)
}

func (r *SQLiteRepository) Update(ctx context.Context, userID string, fn func(recs []models.Record) ([]models.Record, error)) error {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()

	recs, err := r.LoadTable(ctx, userID)
	if err != nil {
		return err
	}
	recs, err = fn(recs)
	if err != nil {
		return err
	}
	return r.saveLocked(ctx, userID, recs)
}

func (r *SQLiteRepository) DeleteTable(ctx context.Context, userID string) error {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("deleting table for %s: %w", userID, err)
	}
	return nil
}

func (r *SQLiteRepository) saveLocked(ctx context.Context, userID string, recs []models.Record) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("clearing table for %s: %w", userID, err)
		}
		query := `INSERT INTO records (user_id, id, category, created_at, title, notes, extra)
		          VALUES (?, ?, ?, ?, ?, ?, ?)`
		for _, rec := range recs {
			extra := "{}"
			if len(rec.Extra) > 0 {
				b, err := json.Marshal(rec.Extra)
				if err != nil {
					return fmt.Errorf("encoding extra columns: %w", err)
				}
				extra = string(b)
			}
			_, err := tx.ExecContext(ctx, query,
				userID, rec.ID, rec.Category, formatCreatedAt(rec.CreatedAt), rec.Title, rec.Notes, extra)
			if err != nil {
				return fmt.Errorf("inserting record %d: %w", rec.ID, err)
			}
		}
		return nil
	})
}
