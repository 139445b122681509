package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dkhrutsky/mdskeeper/internal/common"
	"github.com/dkhrutsky/mdskeeper/internal/logging"
	"github.com/dkhrutsky/mdskeeper/internal/models"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/records"
	"github.com/dkhrutsky/mdskeeper/internal/session"
)

// RecordService performs record CRUD against the table the session's actor
// may operate on: a user's own table, or the impersonation target's.
type RecordService struct {
	records records.Repository
	logger  logging.Logger

	// now is a test seam for created_at stamps.
	now func() time.Time
}

func NewRecordService(repo records.Repository, logger logging.Logger) *RecordService {
	return &RecordService{records: repo, logger: logger, now: time.Now}
}

// List returns the actor's table in creation order.
func (s *RecordService) List(ctx context.Context, sess *session.Session) ([]models.Record, error) {
	uid, err := sess.EffectiveUserID()
	if err != nil {
		return nil, err
	}
	return s.records.LoadTable(ctx, uid)
}

// Add appends a new record. The id is max(existing)+1 (0 on an empty table)
// and created_at is stamped once, at creation.
func (s *RecordService) Add(ctx context.Context, sess *session.Session, title, category, notes string) (models.Record, error) {
	uid, err := sess.EffectiveUserID()
	if err != nil {
		return models.Record{}, err
	}

	var created models.Record
	err = s.records.Update(ctx, uid, func(recs []models.Record) ([]models.Record, error) {
		created = models.Record{
			ID:        models.NextID(recs),
			Category:  category,
			CreatedAt: s.now().Truncate(time.Second),
			Title:     title,
			Notes:     notes,
		}
		return append(recs, created), nil
	})
	if err != nil {
		return models.Record{}, err
	}

	s.logger.Info(ctx, "record added", "uid", uid, "id", created.ID)
	return created, nil
}

// UpdateFields rewrites title, category, and notes of the record with the
// given id. The id and created_at are immutable. A vanished id yields
// ErrorNotFound rather than a silent no-op.
func (s *RecordService) UpdateFields(ctx context.Context, sess *session.Session, id int, title, category, notes string) error {
	uid, err := sess.EffectiveUserID()
	if err != nil {
		return err
	}

	err = s.records.Update(ctx, uid, func(recs []models.Record) ([]models.Record, error) {
		for i := range recs {
			if recs[i].ID == id {
				recs[i].Title = title
				recs[i].Category = category
				recs[i].Notes = notes
				return recs, nil
			}
		}
		return nil, fmt.Errorf("record %d: %w", id, common.ErrorNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "record updated", "uid", uid, "id", id)
	return nil
}

// Delete hard-deletes the record with the given id, leaving the order of
// the others unchanged. A vanished id yields ErrorNotFound.
func (s *RecordService) Delete(ctx context.Context, sess *session.Session, id int) error {
	uid, err := sess.EffectiveUserID()
	if err != nil {
		return err
	}

	err = s.records.Update(ctx, uid, func(recs []models.Record) ([]models.Record, error) {
		kept := make([]models.Record, 0, len(recs))
		for _, r := range recs {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		if len(kept) == len(recs) {
			return nil, fmt.Errorf("record %d: %w", id, common.ErrorNotFound)
		}
		return kept, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "record deleted", "uid", uid, "id", id)
	return nil
}

// Filter returns the actor's records matching f.
func (s *RecordService) Filter(ctx context.Context, sess *session.Session, f records.Filter) ([]models.Record, error) {
	recs, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	return records.Apply(recs, f), nil
}
