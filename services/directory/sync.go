package directory

import (
	"context"
	"strings"
	"time"

	"carematch/database/repository"
	"carematch/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SyncStats summarizes a roster sync run.
type SyncStats struct {
	Total     int      `json:"total"`
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// SyncService reconciles the upstream directory into the local roster.
type SyncService interface {
	// Rebuild wipes and recreates the roster from the directory.
	Rebuild(ctx context.Context) (*SyncStats, *models.SyncLog, error)
	// Refresh upserts directory records without deleting anything.
	Refresh(ctx context.Context) (*SyncStats, *models.SyncLog, error)
	// Status reports database counts and the most recent sync run.
	Status() (map[string]any, error)
}

// DefaultSyncService is the production implementation.
type DefaultSyncService struct {
	Roster     RosterClient
	Therapists repository.TherapistRepository
	SyncLogs   repository.SyncLogRepository
}

func (s *DefaultSyncService) startLog(syncType string) *models.SyncLog {
	entry := &models.SyncLog{
		ID:        uuid.NewString(),
		SyncType:  syncType,
		Status:    "running",
		StartedAt: time.Now().UTC(),
	}
	if err := s.SyncLogs.Create(entry); err != nil {
		zap.L().Warn("failed to create sync log", zap.Error(err))
	}
	return entry
}

func (s *DefaultSyncService) finishLog(entry *models.SyncLog, stats *SyncStats, runErr error) {
	now := time.Now().UTC()
	entry.CompletedAt = &now
	entry.DurationSeconds = now.Sub(entry.StartedAt).Seconds()
	if stats != nil {
		entry.RecordsProcessed = stats.Processed
		entry.RecordsCreated = stats.Created
		entry.RecordsUpdated = stats.Updated
	}
	switch {
	case runErr != nil:
		entry.Status = "error"
		entry.ErrorMessage = runErr.Error()
	case stats != nil && len(stats.Errors) > 0:
		entry.Status = "partial"
		limit := len(stats.Errors)
		if limit > 10 {
			limit = 10
		}
		entry.ErrorMessage = strings.Join(stats.Errors[:limit], "\n")
	default:
		entry.Status = "success"
	}
	if err := s.SyncLogs.Update(entry); err != nil {
		zap.L().Warn("failed to finalize sync log", zap.Error(err))
	}
}

// mapRecords converts directory rows, deduplicating by email.
func mapRecords(records []RosterRecord, stats *SyncStats) []models.Therapist {
	seen := make(map[string]struct{}, len(records))
	var out []models.Therapist
	for _, rec := range records {
		t, ok := MapRecord(rec)
		if !ok {
			stats.Skipped++
			continue
		}
		if _, dup := seen[t.Email]; dup {
			stats.Skipped++
			continue
		}
		seen[t.Email] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (s *DefaultSyncService) Rebuild(ctx context.Context) (*SyncStats, *models.SyncLog, error) {
	logger := zap.L()
	logger.Info("roster rebuild started")

	entry := s.startLog("super_sync")
	stats := &SyncStats{}

	records, err := s.Roster.FetchAll(ctx)
	if err != nil {
		s.finishLog(entry, stats, err)
		return nil, entry, err
	}
	stats.Total = len(records)

	therapists := mapRecords(records, stats)
	if err := s.Therapists.ReplaceAll(therapists); err != nil {
		s.finishLog(entry, stats, err)
		return nil, entry, err
	}
	if err := s.Therapists.EnsureIndexes(); err != nil {
		logger.Warn("failed to ensure roster indexes", zap.Error(err))
	}

	stats.Created = len(therapists)
	stats.Processed = len(therapists)
	s.finishLog(entry, stats, nil)

	logger.Info("roster rebuild complete",
		zap.Int("total", stats.Total),
		zap.Int("created", stats.Created),
		zap.Int("skipped", stats.Skipped))
	return stats, entry, nil
}

func (s *DefaultSyncService) Refresh(ctx context.Context) (*SyncStats, *models.SyncLog, error) {
	logger := zap.L()
	logger.Info("roster refresh started")

	entry := s.startLog("therapist_refresh")
	stats := &SyncStats{}

	records, err := s.Roster.FetchAll(ctx)
	if err != nil {
		s.finishLog(entry, stats, err)
		return nil, entry, err
	}
	stats.Total = len(records)

	for _, t := range mapRecords(records, stats) {
		t := t
		created, err := s.Therapists.Upsert(&t)
		if err != nil {
			stats.Errors = append(stats.Errors, err.Error())
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
		stats.Processed++
	}

	s.finishLog(entry, stats, nil)
	logger.Info("roster refresh complete",
		zap.Int("total", stats.Total),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped))
	return stats, entry, nil
}

func (s *DefaultSyncService) Status() (map[string]any, error) {
	total, err := s.Therapists.Count()
	if err != nil {
		return nil, err
	}

	stateCounts, err := s.Therapists.AvailableStates(nil)
	if err != nil {
		zap.L().Warn("failed to compute state coverage", zap.Error(err))
		stateCounts = map[string]int{}
	}

	status := map[string]any{
		"database": map[string]any{
			"therapists_total": total,
		},
		"states_coverage": len(stateCounts),
		"last_sync":       nil,
	}

	if last, err := s.SyncLogs.Latest(""); err == nil {
		lastSync := map[string]any{
			"type":              last.SyncType,
			"status":            last.Status,
			"started_at":        last.StartedAt.Format(time.RFC3339),
			"records_processed": last.RecordsProcessed,
			"records_created":   last.RecordsCreated,
			"duration_seconds":  last.DurationSeconds,
		}
		if last.CompletedAt != nil {
			lastSync["completed_at"] = last.CompletedAt.Format(time.RFC3339)
		}
		status["last_sync"] = lastSync
	}

	return status, nil
}
