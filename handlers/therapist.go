package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"carematch/database/repository"
	"carematch/models"
	"carematch/services/calendar"
	"carematch/services/matching"
	"carematch/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	searchInitialLimit = 50
	searchQueryLimit   = 10
	slotsLimit         = 50

	availableStatesCacheTTL = 5 * time.Minute
)

type therapistSummary struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Program string   `json:"program"`
	States  []string `json:"states"`
}

func summarize(ts []models.Therapist) []therapistSummary {
	out := make([]therapistSummary, 0, len(ts))
	for i := range ts {
		t := &ts[i]
		states := t.StatesArray
		if states == nil {
			states = []string{}
		}
		out = append(out, therapistSummary{
			ID:      t.ID,
			Name:    t.Name,
			Email:   t.Email,
			Program: t.Program,
			States:  states,
		})
	}
	return out
}

// SearchTherapistsHandler searches eligible therapists by name or email. An
// empty query returns the initial roster for the state; searches shorter
// than 2 characters return nothing.
func SearchTherapistsHandler(repo repository.TherapistRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		q := strings.TrimSpace(c.Query("q"))
		paymentType := strings.ToLower(strings.TrimSpace(c.DefaultQuery("payment_type", "insurance")))
		state := strings.ToUpper(strings.TrimSpace(c.Query("state")))

		logger.Info("therapist search",
			zap.String("query", q),
			zap.String("payment_type", paymentType),
			zap.String("state", state))

		if state == "" {
			c.JSON(http.StatusOK, gin.H{"therapists": []therapistSummary{}})
			return
		}

		filter := repository.EligibilityFilter{
			Programs: matching.EligiblePrograms(paymentType),
			State:    state,
		}

		var (
			therapists []models.Therapist
			err        error
		)
		if q == "" {
			therapists, err = repo.SearchEligible(filter, "", searchInitialLimit)
		} else if len(q) < 2 {
			c.JSON(http.StatusOK, gin.H{"therapists": []therapistSummary{}})
			return
		} else {
			therapists, err = repo.SearchEligible(filter, q, searchQueryLimit)
		}
		if err != nil {
			logger.Error("therapist search failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"therapists": []therapistSummary{}})
			return
		}

		c.JSON(http.StatusOK, gin.H{"therapists": summarize(therapists)})
	}
}

type availableStatesResponse struct {
	PaymentType     string         `json:"payment_type"`
	AvailableStates []string       `json:"available_states"`
	StateCounts     map[string]int `json:"state_counts"`
	TotalStates     int            `json:"total_states"`
	TotalTherapists int            `json:"total_therapists"`
}

// AvailableStatesHandler lists the states where accepting therapists are
// licensed, with per-state counts. Results are cached in Redis since the
// roster changes only on sync.
func AvailableStatesHandler(repo repository.TherapistRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		paymentType := strings.ToLower(strings.TrimSpace(c.DefaultQuery("payment_type", "cash_pay")))
		cacheKey := "available_states:" + paymentType

		cache := utils.GetCacheClient()
		if cache != nil {
			if raw, err := cache.Get(c.Request.Context(), cacheKey).Result(); err == nil {
				var cached availableStatesResponse
				if json.Unmarshal([]byte(raw), &cached) == nil {
					c.JSON(http.StatusOK, cached)
					return
				}
			}
		}

		accepting, err := repo.ListAccepting(matching.EligiblePrograms(paymentType), 0)
		if err != nil {
			logger.Error("failed to list accepting therapists", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		stateCounts := make(map[string]int)
		for i := range accepting {
			for _, raw := range accepting[i].StatesArray {
				if code := utils.StateAbbreviation(raw); code != "" {
					stateCounts[code]++
				}
			}
		}

		states := make([]string, 0, len(stateCounts))
		for code := range stateCounts {
			states = append(states, code)
		}
		sort.Strings(states)

		resp := availableStatesResponse{
			PaymentType:     paymentType,
			AvailableStates: states,
			StateCounts:     stateCounts,
			TotalStates:     len(states),
			TotalTherapists: len(accepting),
		}

		if cache != nil {
			if data, merr := json.Marshal(resp); merr == nil {
				if err := cache.Set(c.Request.Context(), cacheKey, data, availableStatesCacheTTL).Err(); err != nil {
					logger.Warn("failed to cache available states", zap.Error(err))
				}
			}
		}

		logger.Info("available states computed",
			zap.String("payment_type", paymentType),
			zap.Int("states", len(states)),
			zap.Int("therapists", len(accepting)))
		c.JSON(http.StatusOK, resp)
	}
}

// therapistLookup is the slice of the therapist repository the slots
// endpoint needs.
type therapistLookup interface {
	GetByEmail(email string) (*models.Therapist, error)
}

// slotsTimezone picks the display timezone for open slots: an explicit tz
// parameter wins, then the state parameter, then the stored client response,
// then the therapist's own roster timezone.
func slotsTimezone(c *gin.Context, clients repository.ClientRepository, therapists therapistLookup, email string) string {
	if tz := strings.TrimSpace(c.Query("tz")); tz != "" {
		return tz
	}
	if state := utils.StateAbbreviation(c.Query("state")); state != "" && utils.IsValidState(state) {
		return utils.StateTimezone(state)
	}
	if responseID := strings.TrimSpace(c.Query("response_id")); responseID != "" && clients != nil {
		if cr, err := clients.GetByID(responseID); err == nil && cr.State != "" {
			return utils.StateTimezone(utils.StateAbbreviation(cr.State))
		}
	}
	if therapists != nil && email != "" {
		if t, err := therapists.GetByEmail(strings.ToLower(email)); err == nil {
			return t.PrimaryTimezone()
		}
	}
	return "America/New_York"
}

// TherapistSlotsHandler lists open 45-minute weekday slots on a therapist's
// calendar over the next two weeks.
func TherapistSlotsHandler(checker calendar.AvailabilityChecker, clients repository.ClientRepository, therapists therapistLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		email := strings.TrimSpace(c.Query("email"))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"available_slots": []string{}})
			return
		}

		tzName := slotsTimezone(c, clients, therapists, email)
		loc, err := time.LoadLocation(tzName)
		if err != nil {
			loc = time.UTC
		}

		now := time.Now().UTC()
		windowEnd := now.AddDate(0, 0, 14)

		var busy []models.TimeSlot
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
			defer cancel()
			busyByEmail, err := checker.FreeBusy(ctx, []string{email},
				now.Format(time.RFC3339), windowEnd.Format(time.RFC3339))
			if err != nil {
				logger.Error("failed to fetch busy data",
					zap.String("email", email), zap.Error(err))
			} else {
				busy = busyByEmail[email]
			}
		}

		slots := openSlots(busy, now, windowEnd, loc)
		c.JSON(http.StatusOK, gin.H{"available_slots": slots})
	}
}

// openSlots generates weekday slots at :00 and :30 between 9am and 7:30pm
// local time, drops any that collide with a busy block, and caps the list.
func openSlots(busy []models.TimeSlot, now, windowEnd time.Time, loc *time.Location) []string {
	const slotDuration = 45 * time.Minute

	overlapsBusy := func(start, end time.Time) bool {
		for _, b := range busy {
			if start.Before(b.End) && end.After(b.Start) {
				return true
			}
		}
		return false
	}

	slots := []string{}
	base := now.In(loc)
	for dayOffset := 0; dayOffset < 14; dayOffset++ {
		day := base.AddDate(0, 0, dayOffset)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for hour := 9; hour < 20; hour++ {
			for _, minute := range []int{0, 30} {
				start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc).UTC()
				end := start.Add(slotDuration)
				if start.Before(now) || end.After(windowEnd) {
					continue
				}
				if overlapsBusy(start, end) {
					continue
				}
				slots = append(slots, start.Format(time.RFC3339))
				if len(slots) >= slotsLimit {
					return slots
				}
			}
		}
	}
	return slots
}
