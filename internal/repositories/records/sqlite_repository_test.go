package records

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkhrutsky/mdskeeper/internal/models"
)

func newSQLiteRepo(t *testing.T) (*SQLiteRepository, *sql.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteRepository(db), db
}

func TestSQLite_LoadTable_MissingIsEmpty(t *testing.T) {
	repo, _ := newSQLiteRepo(t)

	recs, err := repo.LoadTable(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestSQLite_SaveLoad_RoundTrip(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	in := []models.Record{
		{ID: 0, Category: "荣誉", CreatedAt: ts("2024-05-01 10:00:00"), Title: "Dean's list", Notes: "spring"},
		{ID: 1, Category: "账号", CreatedAt: ts("2024-06-02 09:30:00"), Title: "mail", Notes: "", Extra: map[string]string{"platform": "imap"}},
	}
	require.NoError(t, repo.SaveTable(ctx, "zhang_male", in))

	out, err := repo.LoadTable(ctx, "zhang_male")
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestSQLite_SaveTable_ReplacesWholeTable(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveTable(ctx, "u1", []models.Record{{ID: 0, Title: "a"}, {ID: 1, Title: "b"}}))
	require.NoError(t, repo.SaveTable(ctx, "u1", []models.Record{{ID: 1, Title: "b2"}}))

	recs, err := repo.LoadTable(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b2", recs[0].Title)
}

func TestSQLite_TablesAreIsolatedPerUser(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveTable(ctx, "u1", []models.Record{{ID: 0, Title: "mine"}}))
	require.NoError(t, repo.SaveTable(ctx, "u2", []models.Record{{ID: 0, Title: "theirs"}}))

	recs, err := repo.LoadTable(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "mine", recs[0].Title)
}

func TestSQLite_Update_AppliesTransform(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	err := repo.Update(ctx, "u1", func(recs []models.Record) ([]models.Record, error) {
		return append(recs, models.Record{ID: models.NextID(recs), Title: "first"}), nil
	})
	require.NoError(t, err)

	recs, err := repo.LoadTable(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 0, recs[0].ID)
}

func TestSQLite_DeleteTable(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveTable(ctx, "u1", []models.Record{{ID: 0}}))
	require.NoError(t, repo.DeleteTable(ctx, "u1"))

	recs, err := repo.LoadTable(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, recs)
}
