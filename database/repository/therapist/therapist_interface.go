package therapistRepo

import (
	"carematch/models"
)

// EligibilityFilter carries the hard constraints applied in the database
// before any scoring happens.
type EligibilityFilter struct {
	Programs []string
	State    string
}

// TherapistRepository defines methods for therapist data access.
type TherapistRepository interface {
	// GetByID retrieves a therapist by its unique ID.
	GetByID(id string) (*models.Therapist, error)
	// GetByEmail retrieves a therapist by email, case-insensitive.
	GetByEmail(email string) (*models.Therapist, error)
	// GetByName retrieves a therapist whose name matches exactly, case-insensitive.
	GetByName(name string) (*models.Therapist, error)
	// SearchByName retrieves therapists whose name contains the fragment.
	SearchByName(fragment string, limit int) ([]models.Therapist, error)
	// FindEligible returns therapists passing the hard constraints: program
	// membership, licensed in the state, accepting new clients, and open capacity.
	FindEligible(filter EligibilityFilter) ([]models.Therapist, error)
	// SearchEligible narrows the eligible set to names or emails containing
	// the query fragment.
	SearchEligible(filter EligibilityFilter, query string, limit int) ([]models.Therapist, error)
	// ListAccepting returns accepting therapists with capacity in the given
	// programs, without a state constraint.
	ListAccepting(programs []string, limit int) ([]models.Therapist, error)
	// AvailableStates counts accepting therapists with capacity per licensed state.
	AvailableStates(programs []string) (map[string]int, error)
	// Count returns the total number of therapist records.
	Count() (int64, error)
	// Upsert inserts or replaces a therapist record keyed by ID.
	Upsert(t *models.Therapist) (created bool, err error)
	// ReplaceAll atomically swaps the full roster for the given records.
	ReplaceAll(ts []models.Therapist) error
	// EnsureIndexes creates the indexes the query paths rely on.
	EnsureIndexes() error
}
