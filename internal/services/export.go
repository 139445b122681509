package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dkhrutsky/mdskeeper/internal/export"
	"github.com/dkhrutsky/mdskeeper/internal/logging"
	"github.com/dkhrutsky/mdskeeper/internal/models"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/records"
	"github.com/dkhrutsky/mdskeeper/internal/session"
)

// ExportService projects a filtered view of the actor's table into the
// downloadable encodings.
type ExportService struct {
	records records.Repository
	logger  logging.Logger
}

func NewExportService(repo records.Repository, logger logging.Logger) *ExportService {
	return &ExportService{records: repo, logger: logger}
}

// Preview returns the filtered rows and their count without building any
// encodings, so a page can show the result set before the download.
func (s *ExportService) Preview(ctx context.Context, sess *session.Session, f records.Filter) ([]models.Record, int, error) {
	uid, err := sess.EffectiveUserID()
	if err != nil {
		return nil, 0, err
	}
	recs, err := s.records.LoadTable(ctx, uid)
	if err != nil {
		return nil, 0, err
	}
	filtered, count := export.Project(recs, f)
	return filtered, count, nil
}

// Export filters the actor's table and builds the CSV, Excel, and JSON
// encodings of the same filtered sequence. An empty result set yields
// ErrorNothingToExport with no bundle.
func (s *ExportService) Export(ctx context.Context, sess *session.Session, f records.Filter) (*export.Bundle, error) {
	uid, err := sess.EffectiveUserID()
	if err != nil {
		return nil, err
	}

	recs, err := s.records.LoadTable(ctx, uid)
	if err != nil {
		return nil, err
	}

	filtered, _ := export.Project(recs, f)
	bundle, err := export.Build(filtered)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "export built", "uid", uid, "rows", bundle.Count)
	return bundle, nil
}

// FileName builds a timestamped download name, e.g. "records_20240110_090000.csv".
func FileName(prefix string, at time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, at.Format("20060102_150405"), ext)
}
