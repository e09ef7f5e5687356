package models

import (
	"strings"
	"time"

	"carematch/utils"
)

// Therapist mirrors a roster record for a clinician in the network.
type Therapist struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Calendar string `bson:"calendar,omitempty" json:"calendar,omitempty"`

	AcceptingNewClients string  `bson:"accepting_new_clients,omitempty" json:"accepting_new_clients,omitempty"`
	Cohort              string  `bson:"cohort,omitempty" json:"cohort,omitempty"`
	Program             string  `bson:"program,omitempty" json:"program,omitempty"`
	MaxCaseload         int     `bson:"max_caseload" json:"max_caseload"`
	CurrentCaseload     float64 `bson:"current_caseload" json:"current_caseload"`

	States      string   `bson:"states,omitempty" json:"states,omitempty"`
	StatesArray []string `bson:"states_array,omitempty" json:"states_array,omitempty"`

	Age          string `bson:"age,omitempty" json:"age,omitempty"`
	Gender       string `bson:"gender,omitempty" json:"gender,omitempty"`
	IdentitiesAs string `bson:"identities_as,omitempty" json:"identities_as,omitempty"`
	Ethnicity    string `bson:"ethnicity,omitempty" json:"ethnicity,omitempty"`

	GenderExperience            string `bson:"gender_experience,omitempty" json:"gender_experience,omitempty"`
	SexualOrientationExperience string `bson:"sexual_orientation_experience,omitempty" json:"sexual_orientation_experience,omitempty"`
	NeurodivergenceExperience   string `bson:"neurodivergence_experience,omitempty" json:"neurodivergence_experience,omitempty"`
	RiskExperience              string `bson:"risk_experience,omitempty" json:"risk_experience,omitempty"`

	Religion                       string   `bson:"religion,omitempty" json:"religion,omitempty"`
	Diagnoses                      string   `bson:"diagnoses,omitempty" json:"diagnoses,omitempty"`
	TherapeuticOrientation         string   `bson:"therapeutic_orientation,omitempty" json:"therapeutic_orientation,omitempty"`
	InternalTherapeuticOrientation string   `bson:"internal_therapeutic_orientation,omitempty" json:"internal_therapeutic_orientation,omitempty"`
	Specialities                   string   `bson:"specialities,omitempty" json:"specialities,omitempty"`
	DiagnosesSpecialties           string   `bson:"diagnoses_specialties,omitempty" json:"diagnoses_specialties,omitempty"`
	DiagnosesSpecialtiesArray      []string `bson:"diagnoses_specialties_array,omitempty" json:"diagnoses_specialties_array,omitempty"`

	SocialMediaAffected   string `bson:"social_media_affected,omitempty" json:"social_media_affected,omitempty"`
	FamilyHousehold       string `bson:"family_household,omitempty" json:"family_household,omitempty"`
	Culture               string `bson:"culture,omitempty" json:"culture,omitempty"`
	Places                string `bson:"places,omitempty" json:"places,omitempty"`
	ImmigrationBackground string `bson:"immigration_background,omitempty" json:"immigration_background,omitempty"`

	HasChildren    string `bson:"has_children,omitempty" json:"has_children,omitempty"`
	Married        string `bson:"married,omitempty" json:"married,omitempty"`
	CaretakerRole  string `bson:"caretaker_role,omitempty" json:"caretaker_role,omitempty"`
	LGBTQPart      string `bson:"lgbtq_part,omitempty" json:"lgbtq_part,omitempty"`
	PerformingArts string `bson:"performing_arts,omitempty" json:"performing_arts,omitempty"`

	IntroBio     string `bson:"intro_bio,omitempty" json:"intro_bio,omitempty"`
	WelcomeVideo string `bson:"welcome_video,omitempty" json:"welcome_video,omitempty"`
	PhotoURL     string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`

	LastModified    string `bson:"last_modified,omitempty" json:"last_modified,omitempty"`
	FirstGeneration string `bson:"first_generation,omitempty" json:"first_generation,omitempty"`
	HasJob          string `bson:"has_job,omitempty" json:"has_job,omitempty"`
	CalendarSynced  string `bson:"calendar_synced,omitempty" json:"calendar_synced,omitempty"`

	GoogleCalendarID string `bson:"google_calendar_id,omitempty" json:"google_calendar_id,omitempty"`

	Priority string `bson:"priority,omitempty" json:"priority,omitempty"`
	Timezone string `bson:"timezone,omitempty" json:"timezone,omitempty"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// IsAccepting reports whether the therapist is open to new clients.
func (t *Therapist) IsAccepting() bool {
	return utils.ParseBooleanFlag(t.AcceptingNewClients)
}

// GenderIdentity returns the field the therapist matches gender preferences
// against, lowercased. The self-described identity takes priority over the
// roster gender column.
func (t *Therapist) GenderIdentity() string {
	return strings.ToLower(strings.TrimSpace(utils.Coalesce(t.IdentitiesAs, t.Gender)))
}

// OrientationText returns the raw therapeutic orientation string, preferring
// the public column over the internal one.
func (t *Therapist) OrientationText() string {
	return utils.Coalesce(t.TherapeuticOrientation, t.InternalTherapeuticOrientation)
}

// SpecialtyTexts gathers every free-text column that can carry specialty
// topics, with comma-separated columns split into individual entries.
func (t *Therapist) SpecialtyTexts() []string {
	var out []string
	out = append(out, t.DiagnosesSpecialtiesArray...)
	for _, raw := range []string{t.DiagnosesSpecialties, t.Specialities, t.Diagnoses} {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// LicensedStates returns the normalized list of state abbreviations the
// therapist can see clients in.
func (t *Therapist) LicensedStates() []string {
	if len(t.StatesArray) > 0 {
		return t.StatesArray
	}
	var out []string
	for _, part := range strings.Split(t.States, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, utils.StateAbbreviation(p))
		}
	}
	return out
}

// ServesState reports whether the therapist is licensed in the given state.
func (t *Therapist) ServesState(state string) bool {
	return utils.ValidLicensedState(state, t.LicensedStates())
}

// PrimaryTimezone resolves the therapist's IANA timezone, falling back to the
// first licensed state and then Eastern.
func (t *Therapist) PrimaryTimezone() string {
	if tz := strings.TrimSpace(t.Timezone); tz != "" && strings.Contains(tz, "/") {
		return tz
	}
	if states := t.LicensedStates(); len(states) > 0 {
		return utils.StateTimezone(states[0])
	}
	return "America/New_York"
}

// TherapistPublic is the client-facing projection of a therapist.
type TherapistPublic struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Program      string   `json:"program,omitempty"`
	States       []string `json:"states,omitempty"`
	Age          string   `json:"age,omitempty"`
	Gender       string   `json:"gender,omitempty"`
	Ethnicity    string   `json:"ethnicity,omitempty"`
	Specialties  []string `json:"specialties,omitempty"`
	Orientation  string   `json:"therapeutic_orientation,omitempty"`
	IntroBio     string   `json:"intro_bio,omitempty"`
	WelcomeVideo string   `json:"welcome_video,omitempty"`
	PhotoURL     string   `json:"photo_url,omitempty"`
}

// Public builds the client-facing view of the therapist.
func (t *Therapist) Public() TherapistPublic {
	return TherapistPublic{
		ID:           t.ID,
		Name:         t.Name,
		Email:        t.Email,
		Program:      t.Program,
		States:       t.LicensedStates(),
		Age:          t.Age,
		Gender:       utils.Coalesce(t.IdentitiesAs, t.Gender),
		Ethnicity:    t.Ethnicity,
		Specialties:  t.SpecialtyTexts(),
		Orientation:  t.OrientationText(),
		IntroBio:     t.IntroBio,
		WelcomeVideo: t.WelcomeVideo,
		PhotoURL:     t.PhotoURL,
	}
}
