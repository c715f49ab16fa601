package directory

import (
	"context"
	"fmt"
	"time"

	"schoolmap/internal"
	"schoolmap/internal/config"
	"schoolmap/internal/logger"
	"schoolmap/internal/storage"
)

type SyncService struct {
	db     *storage.DB
	client *Client
	cfg    config.Config
	log    *logger.Logger
}

func NewSyncService(db *storage.DB, cfg config.Config, log *logger.Logger) *SyncService {
	return &SyncService{db: db, client: NewClient(cfg), cfg: cfg, log: log}
}

type SyncStats struct {
	States     int
	Downloaded int
	Kept       int
}

// Sync downloads the school directory state by state and persists the
// high schools. A state that fails is logged and skipped; if nothing
// comes back at all, the full paginated download is tried once.
func (s *SyncService) Sync(ctx context.Context) (SyncStats, error) {
	year := s.cfg.DirectoryYear
	stats := SyncStats{}

	all := make([]internal.DirectorySchool, 0)
	for _, fips := range SortedFIPS() {
		schools, err := s.client.GetSchoolsByState(ctx, year, fips)
		if err != nil {
			s.log.WithError(err).Warnf("directory sync: state %s failed", StateForFIPS(fips))
			continue
		}
		s.log.WithField("state", StateForFIPS(fips)).WithField("schools", len(schools)).Debug("directory state downloaded")
		all = append(all, schools...)
		stats.States++
	}

	if len(all) == 0 {
		s.log.Warn("state-by-state download returned nothing, trying full download")
		schools, err := s.client.GetSchoolsAll(ctx, year)
		if err != nil {
			return stats, fmt.Errorf("directory download failed: %w", err)
		}
		all = schools
	}
	stats.Downloaded = len(all)

	kept := make([]internal.DirectorySchool, 0, len(all))
	for _, school := range all {
		if IsHighSchool(school) {
			kept = append(kept, school)
		}
	}
	stats.Kept = len(kept)

	if err := s.db.UpsertDirectorySchools(kept); err != nil {
		return stats, err
	}
	_ = s.db.SetMetadata("directory.last_sync", time.Now().UTC().Format(time.RFC3339))
	_ = s.db.SetMetadata("directory.year", fmt.Sprintf("%d", year))

	return stats, nil
}
