package matching

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"carematch/config"
	"carematch/database/repository"
	"carematch/models"
	"carematch/services/calendar"
	"carematch/services/media"
	"carematch/utils"

	"go.uber.org/zap"
)

// DefaultMatchLimit caps how many ranked therapists a single match request
// returns.
const DefaultMatchLimit = 50

// Journal persists match outcomes out of band so a slow write never delays
// the match response.
type Journal interface {
	RecordMatchRun(responseID string, topID, topName string, topScore float64, alts models.AlternativeSummary) error
}

// SelectionResult reports the stored selection after a client picks a
// therapist.
type SelectionResult struct {
	Success        bool   `json:"success"`
	MatchStatus    string `json:"match_status"`
	TherapistID    string `json:"therapist_id,omitempty"`
	TherapistEmail string `json:"therapist_email"`
	TherapistName  string `json:"therapist_name"`
}

// AssignmentResult reports the stored assignment or booking state.
type AssignmentResult struct {
	OK                    bool       `json:"ok"`
	ClientResponseID      string     `json:"client_response_id"`
	MatchStatus           string     `json:"match_status"`
	MatchedTherapistEmail string     `json:"matched_therapist_email,omitempty"`
	MatchedTherapistName  string     `json:"matched_therapist_name,omitempty"`
	MatchedTherapistID    string     `json:"matched_therapist_id,omitempty"`
	MatchedSlotStart      *time.Time `json:"matched_slot_start,omitempty"`
	MatchedSlotEnd        *time.Time `json:"matched_slot_end,omitempty"`
}

// AppointmentSync is the payload pushed by the scheduling system once an
// appointment lands on a calendar.
type AppointmentSync struct {
	ClientResponseID  string
	PractitionerEmail string
	PractitionerName  string
	StartDateISO      string
	DurationMinutes   int
}

// MatchingService defines the matching pipeline operations.
type MatchingService interface {
	Match(ctx context.Context, responseID string, limit int) (*models.MatchResponse, error)
	Select(ctx context.Context, responseID, therapistEmail, therapistName string) (*SelectionResult, error)
	Assign(ctx context.Context, responseID, therapistID, therapistEmail string) (*AssignmentResult, error)
	SyncAppointment(ctx context.Context, req AppointmentSync) (*AssignmentResult, error)
}

// DefaultMatchingService is the production implementation.
type DefaultMatchingService struct {
	Therapists repository.TherapistRepository
	Clients    repository.ClientRepository
	Checker    calendar.AvailabilityChecker
	Media      media.Enricher
	Journal    Journal
	Scorer     *Scorer
	RNG        *rand.Rand

	// DisableAvailability skips the calendar filter; matches are returned
	// purely on score order.
	DisableAvailability bool
}

// EligiblePrograms maps a payment type to the therapist programs allowed to
// take that client. Insurance clients go to associates who can bill it;
// cash-pay clients go to graduate-program therapists.
func EligiblePrograms(paymentType string) []string {
	if paymentType == "insurance" {
		return []string{"Limited Permit"}
	}
	return []string{"MFT", "MHC", "MSW"}
}

func clientSummary(c *models.ClientResponse, state string) models.ClientSummary {
	return models.ClientSummary{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		ResponseID: c.ID,
		State:      state,
	}
}

// Match runs the full pipeline: explicit request short-circuit, hard
// filtering, soft scoring, tie-aware ordering, and availability filtering.
func (s *DefaultMatchingService) Match(ctx context.Context, responseID string, limit int) (*models.MatchResponse, error) {
	logger := zap.L()

	if strings.TrimSpace(responseID) == "" {
		return nil, ErrResponseIDRequired
	}
	if limit <= 0 {
		limit = DefaultMatchLimit
	}

	client, err := s.Clients.GetByID(responseID)
	if err != nil {
		return nil, ErrClientNotFound
	}

	s.deriveConcerns(client)

	logger.Info("match request",
		zap.String("response_id", responseID),
		zap.String("state", client.NormalizedState()),
		zap.String("payment_type", client.NormalizedPaymentType()),
		zap.String("gender_pref", client.GenderPreference()))

	// A therapist the client asked for by name or email beats the algorithm.
	if resp := s.tryExplicitRequest(ctx, client, responseID); resp != nil {
		return resp, nil
	}

	clientState := client.NormalizedState()
	if clientState == "" {
		return nil, ErrStateRequired
	}

	paymentType := client.NormalizedPaymentType()
	if paymentType == "insurance" && clientState != "NJ" {
		logger.Warn("insurance requested outside NJ", zap.String("state", clientState))
		return &models.MatchResponse{
			Client:     clientSummary(client, clientState),
			Therapists: []models.MatchResult{},
			Error:      "Insurance matching is currently only available in New Jersey",
		}, nil
	}

	programs := EligiblePrograms(paymentType)
	eligible, err := s.Therapists.FindEligible(repository.EligibilityFilter{
		Programs: programs,
		State:    clientState,
	})
	if err != nil {
		return nil, fmt.Errorf("eligibility query failed: %w", err)
	}

	// The store's accepting filter and IsAccepting share one truthy variant
	// set; anything dropped here means the roster changed under us.
	kept := eligible[:0]
	for i := range eligible {
		if eligible[i].IsAccepting() {
			kept = append(kept, eligible[i])
		}
	}
	eligible = kept

	logger.Info("hard filtering complete",
		zap.Strings("programs", programs),
		zap.Int("eligible", len(eligible)))

	if len(eligible) == 0 {
		return &models.MatchResponse{
			Client:     clientSummary(client, clientState),
			Therapists: []models.MatchResult{},
			Message:    fmt.Sprintf("No therapists available for %s in %s", paymentType, clientState),
		}, nil
	}

	genderPref := client.GenderPreference()
	if HasGenderPreference(genderPref) {
		eligible = FilterByGender(genderPref, eligible)
		logger.Info("gender filtering complete",
			zap.String("preference", genderPref),
			zap.Int("remaining", len(eligible)))
		if len(eligible) == 0 {
			return &models.MatchResponse{
				Client:     clientSummary(client, clientState),
				Therapists: []models.MatchResult{},
				Message: fmt.Sprintf(
					"No %s therapists available for %s in %s. Consider broadening your gender preference.",
					genderPref, paymentType, clientState),
			}, nil
		}
	}

	severity, reason := SeverityLevel(client)
	logger.Info("severity assessed", zap.Int("level", severity), zap.String("reason", reason))

	// Re-run the gender check on the final pool. The filter above and this
	// verification share one predicate, so a mismatch slipping through
	// indicates stale data rather than a logic gap.
	eligible = FilterByGender(genderPref, eligible)

	results := make([]models.MatchResult, 0, len(eligible))
	for i := range eligible {
		t := &eligible[i]
		score, shared := s.Scorer.SoftScore(client, t)
		if shared == nil {
			shared = []string{}
		}
		pub := t.Public()
		if s.Media != nil {
			s.Media.Enrich(ctx, &pub)
		}
		results = append(results, models.MatchResult{
			Therapist:          pub,
			Score:              score,
			MatchedSpecialties: shared,
		})
	}

	results = RankWithTies(results, s.rng())
	results = BoostSimilarAge(results, client.Age)
	if len(results) > limit {
		results = results[:limit]
	}

	if !s.DisableAvailability {
		results = FilterByAvailability(ctx, s.Checker, results, clientState, paymentType)
	} else {
		logger.Info("availability filtering disabled")
	}

	s.recordSuggestions(responseID, results)

	return &models.MatchResponse{
		Client:     clientSummary(client, clientState),
		Therapists: results,
	}, nil
}

// deriveConcerns backfills diagnosis topics from assessment scores when the
// survey skipped the specialty picker.
func (s *DefaultMatchingService) deriveConcerns(c *models.ClientResponse) {
	if len(c.TherapistSpecializesIn) > 0 {
		return
	}
	var derived []string
	if c.GAD7Total != nil && *c.GAD7Total >= 8 {
		derived = append(derived, "Anxiety")
	}
	if c.PHQ9Total != nil && *c.PHQ9Total >= 10 {
		derived = append(derived, "Depression")
	}
	if len(derived) > 0 {
		c.Diagnoses = derived
	}
}

// tryExplicitRequest returns a single-therapist response when the client
// named a therapist who can actually take them. Any failure falls through to
// the general algorithm.
func (s *DefaultMatchingService) tryExplicitRequest(ctx context.Context, client *models.ClientResponse, responseID string) *models.MatchResponse {
	logger := zap.L()

	name := client.RequestedTherapistName()
	email := client.RequestedTherapistEmail()
	if name == "" && email == "" {
		return nil
	}

	logger.Info("explicit therapist request",
		zap.String("name", name), zap.String("email", email))

	t := ResolveExplicitRequest(s.Therapists, name, email)
	if t == nil {
		logger.Warn("requested therapist not found, falling back to general matching",
			zap.String("name", name), zap.String("email", email))
		return nil
	}

	if !EligibleForExplicitMatch(t, client.State) {
		logger.Warn("requested therapist cannot take client, falling back to general matching",
			zap.String("therapist", t.Name), zap.String("state", client.State))
		return nil
	}

	pub := t.Public()
	if s.Media != nil {
		s.Media.Enrich(ctx, &pub)
	}

	return &models.MatchResponse{
		Client: clientSummary(client, ""),
		Therapists: []models.MatchResult{{
			Therapist:          pub,
			Score:              s.Scorer.cfg.ExplicitRequest,
			MatchedSpecialties: []string{},
			MatchReason:        "Explicitly requested therapist",
		}},
		MatchType:  "specific_request",
		TotalCount: 1,
	}
}

// recordSuggestions persists the top pick and alternatives. Best effort: a
// journal or storage failure never fails the match.
func (s *DefaultMatchingService) recordSuggestions(responseID string, results []models.MatchResult) {
	if len(results) == 0 {
		return
	}
	top := results[0]
	alts := models.AlternativeSummary{Count: len(results)}
	for _, r := range results {
		alts.Names = append(alts.Names, r.Therapist.Name)
		alts.IDs = append(alts.IDs, r.Therapist.ID)
		alts.Scores = append(alts.Scores, r.Score)
	}

	var err error
	if s.Journal != nil {
		err = s.Journal.RecordMatchRun(responseID, top.Therapist.ID, top.Therapist.Name, top.Score, alts)
	} else {
		err = s.Clients.RecordSuggestions(responseID, top.Therapist.ID, top.Therapist.Name, top.Score, alts)
	}
	if err != nil {
		zap.L().Warn("failed to store algorithm suggestions",
			zap.String("response_id", responseID), zap.Error(err))
	}
}

// Select records the client's own pick keeping the request values verbatim,
// even when the roster spells the therapist differently.
func (s *DefaultMatchingService) Select(ctx context.Context, responseID, therapistEmail, therapistName string) (*SelectionResult, error) {
	logger := zap.L()

	responseID = strings.TrimSpace(responseID)
	therapistEmail = strings.ToLower(strings.TrimSpace(therapistEmail))
	therapistName = strings.TrimSpace(therapistName)

	if responseID == "" {
		return nil, ErrResponseIDRequired
	}
	if therapistEmail == "" && therapistName == "" {
		return nil, ErrTherapistRefRequired
	}

	if _, err := s.Clients.GetByID(responseID); err != nil {
		return nil, ErrClientNotFound
	}

	var therapistID string
	if therapistEmail != "" {
		if t, err := s.Therapists.GetByEmail(therapistEmail); err == nil {
			therapistID = t.ID
		}
	}
	if therapistID == "" && therapistName != "" {
		if t, err := s.Therapists.GetByName(therapistName); err == nil {
			therapistID = t.ID
		}
	}
	if therapistID == "" {
		logger.Warn("selected therapist not in roster, recording selection anyway",
			zap.String("email", therapistEmail), zap.String("name", therapistName))
	}

	if err := s.Clients.RecordSelection(responseID, therapistID, therapistEmail, therapistName); err != nil {
		return nil, fmt.Errorf("failed to record selection: %w", err)
	}

	logger.Info("therapist selected",
		zap.String("response_id", responseID),
		zap.String("therapist", therapistName),
		zap.String("email", therapistEmail))

	return &SelectionResult{
		Success:        true,
		MatchStatus:    "matched",
		TherapistID:    therapistID,
		TherapistEmail: therapistEmail,
		TherapistName:  therapistName,
	}, nil
}

// Assign marks a roster therapist as matched to the client.
func (s *DefaultMatchingService) Assign(ctx context.Context, responseID, therapistID, therapistEmail string) (*AssignmentResult, error) {
	responseID = strings.TrimSpace(responseID)
	if responseID == "" {
		return nil, ErrResponseIDRequired
	}

	if _, err := s.Clients.GetByID(responseID); err != nil {
		return nil, ErrClientNotFound
	}

	var t *models.Therapist
	if therapistID = strings.TrimSpace(therapistID); therapistID != "" {
		t, _ = s.Therapists.GetByID(therapistID)
	}
	if t == nil {
		if therapistEmail = strings.ToLower(strings.TrimSpace(therapistEmail)); therapistEmail != "" {
			t, _ = s.Therapists.GetByEmail(therapistEmail)
		}
	}
	if t == nil {
		return nil, ErrTherapistNotFound
	}

	if err := s.Clients.RecordAssignment(responseID, t); err != nil {
		return nil, fmt.Errorf("failed to record assignment: %w", err)
	}

	return &AssignmentResult{
		OK:                    true,
		ClientResponseID:      responseID,
		MatchStatus:           "matched",
		MatchedTherapistEmail: t.Email,
		MatchedTherapistName:  t.Name,
		MatchedTherapistID:    t.ID,
	}, nil
}

// SyncAppointment persists a confirmed booking: the response moves to booked
// and the slot is stored in UTC. The start time is interpreted in the
// client's state timezone when the scheduling system sends a naive local
// timestamp.
func (s *DefaultMatchingService) SyncAppointment(ctx context.Context, req AppointmentSync) (*AssignmentResult, error) {
	logger := zap.L()

	responseID := strings.TrimSpace(req.ClientResponseID)
	if responseID == "" {
		return nil, ErrResponseIDRequired
	}

	client, err := s.Clients.GetByID(responseID)
	if err != nil {
		return nil, ErrClientNotFound
	}

	var t *models.Therapist
	if email := strings.ToLower(strings.TrimSpace(req.PractitionerEmail)); email != "" {
		t, _ = s.Therapists.GetByEmail(email)
	}
	if t == nil {
		if name := strings.TrimSpace(req.PractitionerName); name != "" {
			t, _ = s.Therapists.GetByName(name)
		}
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 45
	}

	var slotStart, slotEnd *time.Time
	if iso := strings.TrimSpace(req.StartDateISO); iso != "" {
		tzName := utils.StateTimezone(utils.StateAbbreviation(client.State))
		if start, perr := parseLocalISO(iso, tzName); perr == nil {
			startUTC := start.UTC()
			endUTC := start.Add(time.Duration(duration) * time.Minute).UTC()
			slotStart, slotEnd = &startUTC, &endUTC
		} else {
			logger.Warn("failed to parse appointment start",
				zap.String("start", iso), zap.Error(perr))
		}
	}

	if err := s.Clients.RecordBooking(responseID, t, slotStart, slotEnd); err != nil {
		return nil, fmt.Errorf("failed to record booking: %w", err)
	}

	result := &AssignmentResult{
		OK:               true,
		ClientResponseID: responseID,
		MatchStatus:      "booked",
		MatchedSlotStart: slotStart,
		MatchedSlotEnd:   slotEnd,
	}
	if t != nil {
		result.MatchedTherapistEmail = t.Email
		result.MatchedTherapistName = t.Name
		result.MatchedTherapistID = t.ID
	}
	return result, nil
}

// parseLocalISO parses an ISO timestamp, attaching the given zone when the
// input carries no offset.
func parseLocalISO(iso, tzName string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, iso); err == nil {
		loc, lerr := time.LoadLocation(tzName)
		if lerr != nil {
			return t, nil
		}
		return t.In(loc), nil
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}
	return time.ParseInLocation("2006-01-02T15:04:05", iso, loc)
}

func (s *DefaultMatchingService) rng() *rand.Rand {
	if s.RNG != nil {
		return s.RNG
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewDefaultMatchingService wires the standard production dependencies.
func NewDefaultMatchingService(
	therapists repository.TherapistRepository,
	clients repository.ClientRepository,
	checker calendar.AvailabilityChecker,
	enricher media.Enricher,
	journal Journal,
) *DefaultMatchingService {
	return &DefaultMatchingService{
		Therapists:          therapists,
		Clients:             clients,
		Checker:             checker,
		Media:               enricher,
		Journal:             journal,
		Scorer:              NewScorer(DefaultScoringConfig()),
		DisableAvailability: config.AppConfig.AvailabilityDisabled,
	}
}
