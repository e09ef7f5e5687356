package models

import "time"

// MatchResult pairs a therapist with the score the ranking pipeline gave it.
type MatchResult struct {
	Therapist          TherapistPublic `json:"therapist"`
	Score              float64         `json:"score"`
	MatchedSpecialties []string        `json:"matched_diagnoses_specialities"`
	MatchReason        string          `json:"match_reason,omitempty"`
}

// ClientSummary is the client echo attached to every match response.
type ClientSummary struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	ResponseID string `json:"response_id"`
	State      string `json:"state,omitempty"`
}

// MatchResponse is the wire payload for a match request.
type MatchResponse struct {
	Client     ClientSummary `json:"client"`
	Therapists []MatchResult `json:"therapists"`
	MatchType  string        `json:"match_type,omitempty"`
	TotalCount int           `json:"total_count,omitempty"`
	Message    string        `json:"message,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// AlternativeSummary captures the full ranked list stored alongside the
// algorithm's top suggestion.
type AlternativeSummary struct {
	Count  int       `bson:"count" json:"count"`
	Names  []string  `bson:"names" json:"names"`
	IDs    []string  `bson:"ids" json:"ids"`
	Scores []float64 `bson:"scores" json:"scores"`
}

// Appointment is a booked session synced from the scheduling system.
type Appointment struct {
	ID               string `bson:"id" json:"id"`
	ClientResponseID string `bson:"client_response_id" json:"client_response_id"`
	TherapistID      string `bson:"therapist_id" json:"therapist_id"`

	PractitionerEmail string `bson:"practitioner_email" json:"practitioner_email"`
	PractitionerName  string `bson:"practitioner_name" json:"practitioner_name"`
	StartDateISO      string `bson:"start_date_iso" json:"start_date_iso"`
	Status            string `bson:"status" json:"status"`

	ReminderType                string `bson:"reminder_type,omitempty" json:"reminder_type,omitempty"`
	SendClientEmailNotification bool   `bson:"send_client_email_notification" json:"send_client_email_notification"`
	BookedByClient              bool   `bson:"booked_by_client" json:"booked_by_client"`

	GoogleEventID string `bson:"google_event_id,omitempty" json:"google_event_id,omitempty"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// SyncLog records the outcome of one roster synchronization run.
type SyncLog struct {
	ID               string     `bson:"id" json:"id"`
	SyncType         string     `bson:"sync_type" json:"sync_type"`
	Status           string     `bson:"status" json:"status"`
	RecordsProcessed int        `bson:"records_processed" json:"records_processed"`
	RecordsUpdated   int        `bson:"records_updated" json:"records_updated"`
	RecordsCreated   int        `bson:"records_created" json:"records_created"`
	RecordsDeleted   int        `bson:"records_deleted" json:"records_deleted"`
	ErrorMessage     string     `bson:"error_message,omitempty" json:"error_message,omitempty"`
	StartedAt        time.Time  `bson:"started_at" json:"started_at"`
	CompletedAt      *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	DurationSeconds  float64    `bson:"duration_seconds,omitempty" json:"duration_seconds,omitempty"`
}

// TimeSlot is a bookable interval offered to a client.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
