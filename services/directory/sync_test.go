package directory

import (
	"context"
	"errors"
	"testing"

	"carematch/database/repository"
	"carematch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, name, email string, extra map[string]any) RosterRecord {
	fields := map[string]any{"Name": name, "Email": email}
	for k, v := range extra {
		fields[k] = v
	}
	return RosterRecord{ID: id, Fields: fields}
}

type fakeRoster struct {
	records []RosterRecord
	err     error
}

func (r *fakeRoster) FetchAll(ctx context.Context) ([]RosterRecord, error) {
	return r.records, r.err
}

type fakeSyncTherapistRepo struct {
	stored    []models.Therapist
	upserted  []models.Therapist
	existing  map[string]bool
	upsertErr error
}

func (r *fakeSyncTherapistRepo) GetByID(id string) (*models.Therapist, error) {
	return nil, errors.New("not found")
}

func (r *fakeSyncTherapistRepo) GetByEmail(email string) (*models.Therapist, error) {
	return nil, errors.New("not found")
}

func (r *fakeSyncTherapistRepo) GetByName(name string) (*models.Therapist, error) {
	return nil, errors.New("not found")
}

func (r *fakeSyncTherapistRepo) SearchByName(fragment string, limit int) ([]models.Therapist, error) {
	return nil, nil
}

func (r *fakeSyncTherapistRepo) FindEligible(filter repository.EligibilityFilter) ([]models.Therapist, error) {
	return nil, nil
}

func (r *fakeSyncTherapistRepo) SearchEligible(filter repository.EligibilityFilter, query string, limit int) ([]models.Therapist, error) {
	return nil, nil
}

func (r *fakeSyncTherapistRepo) ListAccepting(programs []string, limit int) ([]models.Therapist, error) {
	return r.stored, nil
}

func (r *fakeSyncTherapistRepo) AvailableStates(programs []string) (map[string]int, error) {
	return map[string]int{"NY": 2, "NJ": 1}, nil
}

func (r *fakeSyncTherapistRepo) Count() (int64, error) { return int64(len(r.stored)), nil }

func (r *fakeSyncTherapistRepo) Upsert(t *models.Therapist) (bool, error) {
	if r.upsertErr != nil {
		return false, r.upsertErr
	}
	r.upserted = append(r.upserted, *t)
	return !r.existing[t.Email], nil
}

func (r *fakeSyncTherapistRepo) ReplaceAll(ts []models.Therapist) error {
	r.stored = ts
	return nil
}

func (r *fakeSyncTherapistRepo) EnsureIndexes() error { return nil }

type fakeSyncLogRepo struct {
	created []models.SyncLog
	updated []models.SyncLog
}

func (r *fakeSyncLogRepo) Create(entry *models.SyncLog) error {
	r.created = append(r.created, *entry)
	return nil
}

func (r *fakeSyncLogRepo) Update(entry *models.SyncLog) error {
	r.updated = append(r.updated, *entry)
	return nil
}

func (r *fakeSyncLogRepo) Latest(syncType string) (*models.SyncLog, error) {
	if len(r.updated) == 0 {
		return nil, errors.New("no sync logs")
	}
	return &r.updated[len(r.updated)-1], nil
}

func (r *fakeSyncLogRepo) Recent(limit int) ([]models.SyncLog, error) {
	return r.updated, nil
}

func TestMapRecordRequiresNameAndEmail(t *testing.T) {
	_, ok := MapRecord(record("rec1", "", "a@b.c", nil))
	assert.False(t, ok)

	_, ok = MapRecord(record("rec2", "Jane", "", nil))
	assert.False(t, ok)

	th, ok := MapRecord(record("rec3", "Jane Doe", "JANE@Example.com", nil))
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", th.Email)
	assert.Equal(t, "rec3", th.ID)
	// Unset priority defaults to low.
	assert.Equal(t, "low", th.Priority)
}

func TestMapRecordFieldConversions(t *testing.T) {
	th, ok := MapRecord(record("rec1", "Jane Doe", "jane@example.com", map[string]any{
		"Accepting New Clients":   "Yes",
		"Program":                 "MHC",
		"Max Caseload":            float64(6),
		"Current Caseload":        "2.5",
		"States":                  "NY, NJ",
		"Diagnoses + Specialties": []any{"Anxiety", "Depression"},
		"Priority":                "high",
	}))
	require.True(t, ok)
	assert.Equal(t, 6, th.MaxCaseload)
	assert.Equal(t, 2.5, th.CurrentCaseload)
	assert.Equal(t, []string{"NY", "NJ"}, th.StatesArray)
	assert.Equal(t, []string{"Anxiety", "Depression"}, th.DiagnosesSpecialtiesArray)
	assert.Equal(t, "high", th.Priority)
}

func TestRebuildReplacesRosterAndLogs(t *testing.T) {
	roster := &fakeRoster{records: []RosterRecord{
		record("rec1", "Jane", "jane@example.com", nil),
		record("rec2", "John", "john@example.com", nil),
		record("rec3", "Dup", "jane@example.com", nil),
		record("rec4", "", "noname@example.com", nil),
	}}
	therapists := &fakeSyncTherapistRepo{}
	logs := &fakeSyncLogRepo{}
	svc := &DefaultSyncService{Roster: roster, Therapists: therapists, SyncLogs: logs}

	stats, entry, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, 2, stats.Skipped)
	assert.Len(t, therapists.stored, 2)

	assert.Equal(t, "super_sync", entry.SyncType)
	assert.Equal(t, "success", entry.Status)
	require.NotNil(t, entry.CompletedAt)
	require.Len(t, logs.updated, 1)
}

func TestRebuildRosterFailure(t *testing.T) {
	roster := &fakeRoster{err: errors.New("upstream down")}
	logs := &fakeSyncLogRepo{}
	svc := &DefaultSyncService{Roster: roster, Therapists: &fakeSyncTherapistRepo{}, SyncLogs: logs}

	_, entry, err := svc.Rebuild(context.Background())
	require.Error(t, err)
	assert.Equal(t, "error", entry.Status)
	assert.Equal(t, "upstream down", entry.ErrorMessage)
}

func TestRefreshCountsCreatedAndUpdated(t *testing.T) {
	roster := &fakeRoster{records: []RosterRecord{
		record("rec1", "Jane", "jane@example.com", nil),
		record("rec2", "John", "john@example.com", nil),
	}}
	therapists := &fakeSyncTherapistRepo{existing: map[string]bool{"jane@example.com": true}}
	logs := &fakeSyncLogRepo{}
	svc := &DefaultSyncService{Roster: roster, Therapists: therapists, SyncLogs: logs}

	stats, entry, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, "therapist_refresh", entry.SyncType)
	assert.Equal(t, "success", entry.Status)
}

func TestRefreshRecordsUpsertErrors(t *testing.T) {
	roster := &fakeRoster{records: []RosterRecord{
		record("rec1", "Jane", "jane@example.com", nil),
	}}
	therapists := &fakeSyncTherapistRepo{upsertErr: errors.New("write failed")}
	logs := &fakeSyncLogRepo{}
	svc := &DefaultSyncService{Roster: roster, Therapists: therapists, SyncLogs: logs}

	stats, entry, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, stats.Errors, 1)
	assert.Equal(t, "partial", entry.Status)
}

func TestStatusReportsCountsAndLastSync(t *testing.T) {
	therapists := &fakeSyncTherapistRepo{stored: []models.Therapist{{ID: "t1"}, {ID: "t2"}}}
	logs := &fakeSyncLogRepo{}
	svc := &DefaultSyncService{Roster: &fakeRoster{}, Therapists: therapists, SyncLogs: logs}

	// Run a sync so there is a log to report.
	_, _, err := svc.Rebuild(context.Background())
	require.NoError(t, err)

	status, err := svc.Status()
	require.NoError(t, err)

	db, ok := status["database"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 0, db["therapists_total"]) // rebuild stored nothing
	assert.Equal(t, 2, status["states_coverage"])

	last, ok := status["last_sync"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "super_sync", last["type"])
}
