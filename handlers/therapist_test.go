package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"carematch/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSlotsStartsAtNineAndCapsList(t *testing.T) {
	// Monday, midnight UTC.
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	windowEnd := now.AddDate(0, 0, 14)

	slots := openSlots(nil, now, windowEnd, time.UTC)

	require.Len(t, slots, slotsLimit)
	assert.Equal(t, "2026-03-02T09:00:00Z", slots[0])
	assert.Equal(t, "2026-03-02T09:30:00Z", slots[1])
}

func TestOpenSlotsSkipsWeekends(t *testing.T) {
	// Saturday morning.
	now := time.Date(2026, 3, 7, 6, 0, 0, 0, time.UTC)
	windowEnd := now.AddDate(0, 0, 14)

	slots := openSlots(nil, now, windowEnd, time.UTC)

	require.NotEmpty(t, slots)
	assert.Equal(t, "2026-03-09T09:00:00Z", slots[0])
	for _, raw := range slots {
		ts, err := time.Parse(time.RFC3339, raw)
		require.NoError(t, err)
		assert.NotEqual(t, time.Saturday, ts.Weekday())
		assert.NotEqual(t, time.Sunday, ts.Weekday())
	}
}

func TestOpenSlotsSkipsBusyAndPast(t *testing.T) {
	// Monday 10:10, with the rest of the morning blocked.
	now := time.Date(2026, 3, 2, 10, 10, 0, 0, time.UTC)
	windowEnd := now.AddDate(0, 0, 14)
	busy := []models.TimeSlot{{
		Start: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}}

	slots := openSlots(busy, now, windowEnd, time.UTC)

	require.NotEmpty(t, slots)
	// 11:30 would run until 12:15 and overlap the block; 12:00 is clear.
	assert.Equal(t, "2026-03-02T12:00:00Z", slots[0])
	assert.NotContains(t, slots, "2026-03-02T09:00:00Z")
	assert.NotContains(t, slots, "2026-03-02T11:30:00Z")
}

func contextWithQuery(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

type fakeTherapistLookup struct {
	byEmail map[string]*models.Therapist
}

func (f *fakeTherapistLookup) GetByEmail(email string) (*models.Therapist, error) {
	if t, ok := f.byEmail[email]; ok {
		return t, nil
	}
	return nil, assert.AnError
}

func TestSlotsTimezonePrecedence(t *testing.T) {
	c := contextWithQuery("/api/therapists/slots?tz=America/Chicago&state=NY")
	assert.Equal(t, "America/Chicago", slotsTimezone(c, nil, nil, ""))

	c = contextWithQuery("/api/therapists/slots?state=California")
	assert.Equal(t, "America/Los_Angeles", slotsTimezone(c, nil, nil, ""))

	c = contextWithQuery("/api/therapists/slots")
	assert.Equal(t, "America/New_York", slotsTimezone(c, nil, nil, ""))
}

func TestSlotsTimezoneFallsBackToTherapistRoster(t *testing.T) {
	lookup := &fakeTherapistLookup{byEmail: map[string]*models.Therapist{
		"jane@example.com": {Email: "jane@example.com", Timezone: "America/Denver"},
		"ana@example.com":  {Email: "ana@example.com", StatesArray: []string{"CA"}},
	}}

	c := contextWithQuery("/api/therapists/slots")
	assert.Equal(t, "America/Denver", slotsTimezone(c, nil, lookup, "Jane@Example.com"))

	// No roster timezone: the first licensed state decides.
	assert.Equal(t, "America/Los_Angeles", slotsTimezone(c, nil, lookup, "ana@example.com"))

	// Unknown therapist keeps the Eastern default.
	assert.Equal(t, "America/New_York", slotsTimezone(c, nil, lookup, "ghost@example.com"))
}

func TestSummarizeDefaultsStates(t *testing.T) {
	out := summarize([]models.Therapist{
		{ID: "t1", Name: "Jane", Email: "jane@example.com", Program: "Full Time W2", StatesArray: []string{"NY", "NJ"}},
		{ID: "t2", Name: "Ana", Email: "ana@example.com"},
	})

	require.Len(t, out, 2)
	assert.Equal(t, []string{"NY", "NJ"}, out[0].States)
	assert.NotNil(t, out[1].States)
	assert.Empty(t, out[1].States)
}
