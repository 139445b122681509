package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkhrutsky/mdskeeper/internal/common"
	"github.com/dkhrutsky/mdskeeper/internal/models"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/records"
	"github.com/dkhrutsky/mdskeeper/internal/session"
)

func newRecordService(t *testing.T) *RecordService {
	repo := records.NewCSVRepository(t.TempDir(), testLogger())
	svc := NewRecordService(repo, testLogger())
	svc.now = func() time.Time {
		return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

func userSession(uid string) *session.Session {
	sess := session.New()
	sess.BeginUser(uid, uid, models.SexOther)
	return sess
}

func TestRecordAdd_AssignsSequentialIDs(t *testing.T) {
	svc := newRecordService(t)
	ctx := context.Background()
	sess := userSession("alice_female")

	first, err := svc.Add(ctx, sess, "first", "荣誉", "")
	require.NoError(t, err)
	assert.Equal(t, 0, first.ID)

	second, err := svc.Add(ctx, sess, "second", "证书", "notes")
	require.NoError(t, err)
	assert.Equal(t, 1, second.ID)

	recs, err := svc.List(ctx, sess)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "first", recs[0].Title)
}

func TestRecordAdd_StampsCreatedAtOnce(t *testing.T) {
	svc := newRecordService(t)
	ctx := context.Background()
	sess := userSession("alice_female")

	rec, err := svc.Add(ctx, sess, "x", "其他", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10 09:00:00", rec.CreatedAt.Format(models.TimeLayout))

	require.NoError(t, svc.UpdateFields(ctx, sess, rec.ID, "renamed", "其他", ""))

	recs, err := svc.List(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, rec.CreatedAt.Format(models.TimeLayout), recs[0].CreatedAt.Format(models.TimeLayout))
}

func TestRecordUpdateFields_VanishedID(t *testing.T) {
	svc := newRecordService(t)
	sess := userSession("alice_female")

	err := svc.UpdateFields(context.Background(), sess, 42, "t", "c", "n")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRecordDelete(t *testing.T) {
	svc := newRecordService(t)
	ctx := context.Background()
	sess := userSession("alice_female")

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Add(ctx, sess, title, "其他", "")
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(ctx, sess, 1))

	recs, err := svc.List(ctx, sess)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].Title)
	assert.Equal(t, "c", recs[1].Title)

	assert.ErrorIs(t, svc.Delete(ctx, sess, 1), common.ErrorNotFound)
}

func TestRecordDelete_MaxThenAddReusesValue(t *testing.T) {
	svc := newRecordService(t)
	ctx := context.Background()
	sess := userSession("alice_female")

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Add(ctx, sess, title, "其他", "")
		require.NoError(t, err)
	}
	require.NoError(t, svc.Delete(ctx, sess, 2))

	rec, err := svc.Add(ctx, sess, "d", "其他", "")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.ID)
}

func TestRecordOps_RequireIdentity(t *testing.T) {
	svc := newRecordService(t)
	ctx := context.Background()
	anon := session.New()

	_, err := svc.List(ctx, anon)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = svc.Add(ctx, anon, "t", "c", "n")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRecordOps_ImpersonationTargetsOtherTable(t *testing.T) {
	svc := newRecordService(t)
	ctx := context.Background()

	owner := userSession("alice_female")
	_, err := svc.Add(ctx, owner, "owned", "荣誉", "")
	require.NoError(t, err)

	admin := session.New()
	admin.BeginAdmin()
	require.NoError(t, admin.Impersonate("alice_female"))

	recs, err := svc.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "owned", recs[0].Title)

	_, err = svc.Add(ctx, admin, "added as admin", "其他", "")
	require.NoError(t, err)

	recs, err = svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestRecordFilter(t *testing.T) {
	svc := newRecordService(t)
	ctx := context.Background()
	sess := userSession("alice_female")

	_, err := svc.Add(ctx, sess, "ACM final", "竞赛", "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, sess, "diploma", "教育经历", "")
	require.NoError(t, err)

	got, err := svc.Filter(ctx, sess, records.Filter{Keyword: "acm"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ACM final", got[0].Title)
}
