package calendar

import (
	"context"

	"carematch/models"
)

// Availability summarizes a therapist's open sessions over the lookahead
// window.
type Availability struct {
	HasAvailability bool
	TotalSessions   int
	AvailableDays   int
	Err             error
}

// AvailabilityChecker answers whether therapists have bookable sessions in
// the next two weeks.
type AvailabilityChecker interface {
	// BatchAvailability checks every email in one upstream call. The result
	// map always contains an entry per input email; per-therapist failures
	// are carried in the entry's Err field. A returned error means the whole
	// batch failed.
	BatchAvailability(ctx context.Context, emails []string, paymentType, timezoneName string) (map[string]Availability, error)
	// FreeBusy returns the raw busy blocks per calendar for the given window.
	FreeBusy(ctx context.Context, emails []string, from, to string) (map[string][]models.TimeSlot, error)
}
