package syncRepo

import (
	"carematch/models"
)

// SyncLogRepository defines methods for roster sync bookkeeping.
type SyncLogRepository interface {
	// Create inserts a new sync log entry.
	Create(entry *models.SyncLog) error
	// Update replaces an existing sync log entry by ID.
	Update(entry *models.SyncLog) error
	// Latest returns the most recent sync log for the given sync type.
	// A blank syncType matches any run.
	Latest(syncType string) (*models.SyncLog, error)
	// Recent returns up to limit sync logs, newest first.
	Recent(limit int) ([]models.SyncLog, error)
}
