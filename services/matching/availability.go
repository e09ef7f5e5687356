package matching

import (
	"context"

	"carematch/models"
	"carematch/services/calendar"

	"go.uber.org/zap"
)

// matchingTimezone picks the coarse region timezone used for availability
// windows during matching. Exact per-state zones only matter when concrete
// slots are rendered, not for a has-any-openings check.
func matchingTimezone(clientState string) string {
	switch clientState {
	case "CA", "WA", "OR", "NV":
		return "America/Los_Angeles"
	case "TX", "CO", "UT", "AZ", "MT":
		return "America/Chicago"
	default:
		return "America/New_York"
	}
}

// FilterByAvailability drops therapists with no open sessions in the next
// two weeks. The check fails open: a per-therapist error keeps that
// therapist in, and a batch failure returns the input untouched so an
// upstream calendar outage never blocks matching.
func FilterByAvailability(ctx context.Context, checker calendar.AvailabilityChecker, results []models.MatchResult, clientState, paymentType string) []models.MatchResult {
	logger := zap.L()
	if len(results) == 0 || checker == nil {
		return results
	}

	emails := make([]string, 0, len(results))
	for _, r := range results {
		if r.Therapist.Email == "" {
			logger.Warn("therapist missing email, skipping availability check",
				zap.String("name", r.Therapist.Name))
			continue
		}
		emails = append(emails, r.Therapist.Email)
	}
	if len(emails) == 0 {
		return results
	}

	availability, err := checker.BatchAvailability(ctx, emails, paymentType, matchingTimezone(clientState))
	if err != nil {
		logger.Error("batch availability check failed, keeping all matches", zap.Error(err))
		return results
	}

	var available []models.MatchResult
	for _, r := range results {
		email := r.Therapist.Email
		if email == "" {
			available = append(available, r)
			continue
		}
		a := availability[email]
		switch {
		case a.Err != nil:
			logger.Warn("availability check errored for therapist, including anyway",
				zap.String("email", email), zap.Error(a.Err))
			available = append(available, r)
		case a.HasAvailability:
			logger.Debug("therapist has open sessions",
				zap.String("email", email),
				zap.Int("sessions", a.TotalSessions),
				zap.Int("days", a.AvailableDays))
			available = append(available, r)
		default:
			logger.Debug("therapist has no open sessions", zap.String("email", email))
		}
	}

	logger.Info("availability filtering complete",
		zap.Int("before", len(results)), zap.Int("after", len(available)))
	return available
}
