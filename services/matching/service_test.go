package matching

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"carematch/database/repository"
	"carematch/models"
	"carematch/services/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTherapistRepo struct {
	therapists []models.Therapist
	eligible   []models.Therapist
	findErr    error
}

func (r *fakeTherapistRepo) GetByID(id string) (*models.Therapist, error) {
	for i := range r.therapists {
		if r.therapists[i].ID == id {
			return &r.therapists[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeTherapistRepo) GetByEmail(email string) (*models.Therapist, error) {
	for i := range r.therapists {
		if strings.EqualFold(r.therapists[i].Email, email) {
			return &r.therapists[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeTherapistRepo) GetByName(name string) (*models.Therapist, error) {
	for i := range r.therapists {
		if strings.EqualFold(r.therapists[i].Name, name) {
			return &r.therapists[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeTherapistRepo) SearchByName(fragment string, limit int) ([]models.Therapist, error) {
	var out []models.Therapist
	for _, t := range r.therapists {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(fragment)) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTherapistRepo) FindEligible(filter repository.EligibilityFilter) ([]models.Therapist, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.eligible, nil
}

func (r *fakeTherapistRepo) SearchEligible(filter repository.EligibilityFilter, query string, limit int) ([]models.Therapist, error) {
	return r.eligible, nil
}

func (r *fakeTherapistRepo) ListAccepting(programs []string, limit int) ([]models.Therapist, error) {
	return r.therapists, nil
}

func (r *fakeTherapistRepo) AvailableStates(programs []string) (map[string]int, error) {
	return map[string]int{}, nil
}

func (r *fakeTherapistRepo) Count() (int64, error) { return int64(len(r.therapists)), nil }

func (r *fakeTherapistRepo) Upsert(t *models.Therapist) (bool, error) { return true, nil }

func (r *fakeTherapistRepo) ReplaceAll(ts []models.Therapist) error { return nil }

func (r *fakeTherapistRepo) EnsureIndexes() error { return nil }

type fakeClientRepo struct {
	clients map[string]*models.ClientResponse

	suggestionsID   string
	suggestionsTop  string
	selectionName   string
	selectionEmail  string
	selectionID     string
	assigned        *models.Therapist
	bookedStart     *time.Time
	bookedEnd       *time.Time
	bookedTherapist *models.Therapist
}

func (r *fakeClientRepo) GetByID(id string) (*models.ClientResponse, error) {
	if c, ok := r.clients[id]; ok {
		return c, nil
	}
	return nil, errors.New("not found")
}

func (r *fakeClientRepo) Create(c *models.ClientResponse) error { return nil }

func (r *fakeClientRepo) RecordSuggestions(id string, topID, topName string, topScore float64, alts models.AlternativeSummary) error {
	r.suggestionsID = id
	r.suggestionsTop = topName
	return nil
}

func (r *fakeClientRepo) RecordSelection(id string, therapistID, therapistEmail, therapistName string) error {
	r.selectionID = therapistID
	r.selectionEmail = therapistEmail
	r.selectionName = therapistName
	return nil
}

func (r *fakeClientRepo) RecordAssignment(id string, t *models.Therapist) error {
	r.assigned = t
	return nil
}

func (r *fakeClientRepo) RecordBooking(id string, t *models.Therapist, slotStart, slotEnd *time.Time) error {
	r.bookedTherapist = t
	r.bookedStart = slotStart
	r.bookedEnd = slotEnd
	return nil
}

type fakeChecker struct {
	availability map[string]calendar.Availability
	batchErr     error
}

func (c *fakeChecker) BatchAvailability(ctx context.Context, emails []string, paymentType, timezoneName string) (map[string]calendar.Availability, error) {
	if c.batchErr != nil {
		return nil, c.batchErr
	}
	out := make(map[string]calendar.Availability, len(emails))
	for _, e := range emails {
		out[e] = c.availability[e]
	}
	return out, nil
}

func (c *fakeChecker) FreeBusy(ctx context.Context, emails []string, from, to string) (map[string][]models.TimeSlot, error) {
	return map[string][]models.TimeSlot{}, nil
}

func acceptingTherapist(id, name, email string) models.Therapist {
	return models.Therapist{
		ID:                  id,
		Name:                name,
		Email:               email,
		AcceptingNewClients: "Yes",
		MaxCaseload:         5,
		Program:             "MHC",
		States:              "NY, NJ",
		StatesArray:         []string{"NY", "NJ"},
	}
}

func newTestService(tr *fakeTherapistRepo, cr *fakeClientRepo, checker calendar.AvailabilityChecker) *DefaultMatchingService {
	return &DefaultMatchingService{
		Therapists: tr,
		Clients:    cr,
		Checker:    checker,
		Scorer:     NewScorer(DefaultScoringConfig()),
		RNG:        rand.New(rand.NewSource(1)),
	}
}

func TestMatchRequiresResponseID(t *testing.T) {
	svc := newTestService(&fakeTherapistRepo{}, &fakeClientRepo{}, nil)
	_, err := svc.Match(context.Background(), "  ", 0)
	assert.ErrorIs(t, err, ErrResponseIDRequired)
}

func TestMatchUnknownClient(t *testing.T) {
	svc := newTestService(&fakeTherapistRepo{}, &fakeClientRepo{clients: map[string]*models.ClientResponse{}}, nil)
	_, err := svc.Match(context.Background(), "resp-1", 0)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestMatchRequiresState(t *testing.T) {
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1"},
	}}
	svc := newTestService(&fakeTherapistRepo{}, cr, nil)
	_, err := svc.Match(context.Background(), "resp-1", 0)
	assert.ErrorIs(t, err, ErrStateRequired)
}

func TestMatchInsuranceOutsideNJ(t *testing.T) {
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1", State: "NY", PaymentType: "insurance"},
	}}
	svc := newTestService(&fakeTherapistRepo{}, cr, nil)

	resp, err := svc.Match(context.Background(), "resp-1", 0)
	require.NoError(t, err)
	assert.Equal(t, "Insurance matching is currently only available in New Jersey", resp.Error)
	assert.Empty(t, resp.Therapists)
}

func TestMatchEmptyPoolMessage(t *testing.T) {
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1", State: "NY", PaymentType: "cash_pay"},
	}}
	svc := newTestService(&fakeTherapistRepo{}, cr, nil)

	resp, err := svc.Match(context.Background(), "resp-1", 0)
	require.NoError(t, err)
	assert.Equal(t, "No therapists available for cash_pay in NY", resp.Message)
}

func TestMatchGenderPoolExhaustedMessage(t *testing.T) {
	male := acceptingTherapist("t1", "Tom", "tom@example.com")
	male.Gender = "Male"
	tr := &fakeTherapistRepo{eligible: []models.Therapist{male}}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1", State: "NY", TherapistIdentifiesAs: "female"},
	}}
	svc := newTestService(tr, cr, nil)

	resp, err := svc.Match(context.Background(), "resp-1", 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Therapists)
	assert.Contains(t, resp.Message, "No female therapists available")
	assert.Contains(t, resp.Message, "Consider broadening your gender preference")
}

func TestMatchRanksAndRecordsSuggestions(t *testing.T) {
	strong := acceptingTherapist("t1", "Strong Match", "strong@example.com")
	strong.Priority = "high"
	strong.DiagnosesSpecialtiesArray = []string{"Anxiety"}
	weak := acceptingTherapist("t2", "Weak Match", "weak@example.com")

	tr := &fakeTherapistRepo{eligible: []models.Therapist{weak, strong}}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {
			ID:                     "resp-1",
			State:                  "NY",
			TherapistSpecializesIn: []string{"anxiety"},
		},
	}}
	checker := &fakeChecker{availability: map[string]calendar.Availability{
		"strong@example.com": {HasAvailability: true, TotalSessions: 4},
		"weak@example.com":   {HasAvailability: true, TotalSessions: 2},
	}}
	svc := newTestService(tr, cr, checker)

	resp, err := svc.Match(context.Background(), "resp-1", 0)
	require.NoError(t, err)
	require.Len(t, resp.Therapists, 2)
	assert.Equal(t, "Strong Match", resp.Therapists[0].Therapist.Name)
	assert.Greater(t, resp.Therapists[0].Score, resp.Therapists[1].Score)
	assert.Equal(t, []string{TopicAnxiety}, resp.Therapists[0].MatchedSpecialties)

	assert.Equal(t, "resp-1", cr.suggestionsID)
	assert.Equal(t, "Strong Match", cr.suggestionsTop)
}

func TestMatchAvailabilityDropsFullyBooked(t *testing.T) {
	open := acceptingTherapist("t1", "Open", "open@example.com")
	booked := acceptingTherapist("t2", "Booked", "booked@example.com")

	tr := &fakeTherapistRepo{eligible: []models.Therapist{open, booked}}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1", State: "NY"},
	}}
	checker := &fakeChecker{availability: map[string]calendar.Availability{
		"open@example.com":   {HasAvailability: true},
		"booked@example.com": {HasAvailability: false},
	}}
	svc := newTestService(tr, cr, checker)

	resp, err := svc.Match(context.Background(), "resp-1", 0)
	require.NoError(t, err)
	require.Len(t, resp.Therapists, 1)
	assert.Equal(t, "Open", resp.Therapists[0].Therapist.Name)
}

func TestMatchAvailabilityFailsOpen(t *testing.T) {
	open := acceptingTherapist("t1", "Open", "open@example.com")
	tr := &fakeTherapistRepo{eligible: []models.Therapist{open}}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1", State: "NY"},
	}}
	checker := &fakeChecker{batchErr: errors.New("upstream down")}
	svc := newTestService(tr, cr, checker)

	resp, err := svc.Match(context.Background(), "resp-1", 0)
	require.NoError(t, err)
	assert.Len(t, resp.Therapists, 1)
}

func TestMatchExplicitRequestShortCircuits(t *testing.T) {
	requested := acceptingTherapist("t1", "Jane Doe", "jane@example.com")
	other := acceptingTherapist("t2", "Other", "other@example.com")

	tr := &fakeTherapistRepo{
		therapists: []models.Therapist{requested, other},
		eligible:   []models.Therapist{other},
	}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {
			ID:                     "resp-1",
			State:                  "NY",
			SelectedTherapistEmail: "jane@example.com",
		},
	}}
	svc := newTestService(tr, cr, nil)

	resp, err := svc.Match(context.Background(), "resp-1", 0)
	require.NoError(t, err)
	require.Len(t, resp.Therapists, 1)
	assert.Equal(t, "Jane Doe", resp.Therapists[0].Therapist.Name)
	assert.Equal(t, 1000.0, resp.Therapists[0].Score)
	assert.Equal(t, "Explicitly requested therapist", resp.Therapists[0].MatchReason)
	assert.Equal(t, "specific_request", resp.MatchType)
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, []string{}, resp.Therapists[0].MatchedSpecialties)
}

func TestMatchExplicitRequestFallsBackWhenIneligible(t *testing.T) {
	requested := acceptingTherapist("t1", "Jane Doe", "jane@example.com")
	requested.AcceptingNewClients = ""
	other := acceptingTherapist("t2", "Other", "other@example.com")

	tr := &fakeTherapistRepo{
		therapists: []models.Therapist{requested, other},
		eligible:   []models.Therapist{other},
	}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {
			ID:                     "resp-1",
			State:                  "NY",
			SelectedTherapistEmail: "jane@example.com",
		},
	}}
	svc := newTestService(tr, cr, nil)

	resp, err := svc.Match(context.Background(), "resp-1", 0)
	require.NoError(t, err)
	require.Len(t, resp.Therapists, 1)
	assert.Equal(t, "Other", resp.Therapists[0].Therapist.Name)
	assert.Empty(t, resp.MatchType)
}

func TestMatchLimitTruncates(t *testing.T) {
	var pool []models.Therapist
	for _, n := range []string{"a", "b", "c", "d"} {
		pool = append(pool, acceptingTherapist("t-"+n, n, n+"@example.com"))
	}
	tr := &fakeTherapistRepo{eligible: pool}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1", State: "NY"},
	}}
	svc := newTestService(tr, cr, nil)

	resp, err := svc.Match(context.Background(), "resp-1", 2)
	require.NoError(t, err)
	assert.Len(t, resp.Therapists, 2)
}

func TestSelectKeepsRequestValuesVerbatim(t *testing.T) {
	roster := acceptingTherapist("t1", "Jane Doe", "jane@example.com")
	tr := &fakeTherapistRepo{therapists: []models.Therapist{roster}}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1"},
	}}
	svc := newTestService(tr, cr, nil)

	result, err := svc.Select(context.Background(), "resp-1", "JANE@example.com", "Associate Test")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "matched", result.MatchStatus)
	assert.Equal(t, "t1", result.TherapistID)
	assert.Equal(t, "jane@example.com", result.TherapistEmail)
	assert.Equal(t, "Associate Test", result.TherapistName)
}

func TestSelectUnknownTherapistStillRecords(t *testing.T) {
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1"},
	}}
	svc := newTestService(&fakeTherapistRepo{}, cr, nil)

	result, err := svc.Select(context.Background(), "resp-1", "ghost@example.com", "Ghost")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.TherapistID)
	assert.Equal(t, "Ghost", cr.selectionName)
}

func TestSelectValidation(t *testing.T) {
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1"},
	}}
	svc := newTestService(&fakeTherapistRepo{}, cr, nil)

	_, err := svc.Select(context.Background(), "", "a@b.c", "")
	assert.ErrorIs(t, err, ErrResponseIDRequired)

	_, err = svc.Select(context.Background(), "resp-1", "", "")
	assert.ErrorIs(t, err, ErrTherapistRefRequired)

	_, err = svc.Select(context.Background(), "missing", "a@b.c", "")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestAssignRequiresRosterTherapist(t *testing.T) {
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1"},
	}}
	svc := newTestService(&fakeTherapistRepo{}, cr, nil)

	_, err := svc.Assign(context.Background(), "resp-1", "", "ghost@example.com")
	assert.ErrorIs(t, err, ErrTherapistNotFound)
}

func TestAssignByIDThenEmail(t *testing.T) {
	roster := acceptingTherapist("t1", "Jane Doe", "jane@example.com")
	tr := &fakeTherapistRepo{therapists: []models.Therapist{roster}}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1"},
	}}
	svc := newTestService(tr, cr, nil)

	result, err := svc.Assign(context.Background(), "resp-1", "t1", "")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "matched", result.MatchStatus)
	assert.Equal(t, "jane@example.com", result.MatchedTherapistEmail)

	result, err = svc.Assign(context.Background(), "resp-1", "nope", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "t1", result.MatchedTherapistID)
}

func TestSyncAppointmentParsesLocalStart(t *testing.T) {
	roster := acceptingTherapist("t1", "Jane Doe", "jane@example.com")
	tr := &fakeTherapistRepo{therapists: []models.Therapist{roster}}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1", State: "New York"},
	}}
	svc := newTestService(tr, cr, nil)

	result, err := svc.SyncAppointment(context.Background(), AppointmentSync{
		ClientResponseID:  "resp-1",
		PractitionerEmail: "jane@example.com",
		StartDateISO:      "2026-01-15T10:00:00",
	})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "booked", result.MatchStatus)
	require.NotNil(t, result.MatchedSlotStart)
	require.NotNil(t, result.MatchedSlotEnd)

	// 10:00 Eastern in January is 15:00 UTC, and the default session runs
	// 45 minutes.
	assert.Equal(t, time.Date(2026, 1, 15, 15, 0, 0, 0, time.UTC), *result.MatchedSlotStart)
	assert.Equal(t, 45*time.Minute, result.MatchedSlotEnd.Sub(*result.MatchedSlotStart))
	assert.Equal(t, "jane@example.com", result.MatchedTherapistEmail)
}

func TestSyncAppointmentUnknownTherapistStillBooks(t *testing.T) {
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1", State: "NY"},
	}}
	svc := newTestService(&fakeTherapistRepo{}, cr, nil)

	result, err := svc.SyncAppointment(context.Background(), AppointmentSync{
		ClientResponseID: "resp-1",
		PractitionerName: "Ghost",
	})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Empty(t, result.MatchedTherapistID)
	assert.Nil(t, result.MatchedSlotStart)
}

func TestEligiblePrograms(t *testing.T) {
	assert.Equal(t, []string{"Limited Permit"}, EligiblePrograms("insurance"))
	assert.Equal(t, []string{"MFT", "MHC", "MSW"}, EligiblePrograms("cash_pay"))
	assert.Equal(t, []string{"MFT", "MHC", "MSW"}, EligiblePrograms(""))
}

func TestMatchRevalidatesAcceptingFlag(t *testing.T) {
	open := acceptingTherapist("t1", "Jane", "jane@example.com")
	waitlisted := acceptingTherapist("t2", "Ana", "ana@example.com")
	waitlisted.AcceptingNewClients = "Waitlist"
	tr := &fakeTherapistRepo{eligible: []models.Therapist{open, waitlisted}}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1", State: "NY", PaymentType: "cash_pay"},
	}}
	svc := newTestService(tr, cr, nil)

	resp, err := svc.Match(context.Background(), "resp-1", 0)
	require.NoError(t, err)
	require.Len(t, resp.Therapists, 1)
	assert.Equal(t, "Jane", resp.Therapists[0].Therapist.Name)
}

func TestMatchSpecialtiesSerializeAsEmptyList(t *testing.T) {
	tr := &fakeTherapistRepo{eligible: []models.Therapist{
		acceptingTherapist("t1", "Jane", "jane@example.com"),
	}}
	cr := &fakeClientRepo{clients: map[string]*models.ClientResponse{
		"resp-1": {ID: "resp-1", State: "NY", PaymentType: "cash_pay"},
	}}
	svc := newTestService(tr, cr, nil)

	resp, err := svc.Match(context.Background(), "resp-1", 0)
	require.NoError(t, err)
	require.Len(t, resp.Therapists, 1)
	require.NotNil(t, resp.Therapists[0].MatchedSpecialties)

	raw, err := json.Marshal(resp.Therapists[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"matched_diagnoses_specialities":[]`)
}
