// Package directory pulls the therapist roster from the upstream directory
// API and reconciles it into the local database.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"carematch/models"
)

// RosterRecord is one directory row before mapping into a Therapist.
type RosterRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type rosterPage struct {
	Records []RosterRecord `json:"records"`
	Offset  string         `json:"offset"`
}

// RosterClient fetches therapist records from the directory API.
type RosterClient interface {
	FetchAll(ctx context.Context) ([]RosterRecord, error)
}

// HTTPRosterClient talks to the directory REST API with bearer auth and
// offset-based paging.
type HTTPRosterClient struct {
	BaseURL string
	APIKey  string
	Table   string
	Client  *http.Client
}

// NewHTTPRosterClient builds a client with a sane request timeout.
func NewHTTPRosterClient(baseURL, apiKey, table string) *HTTPRosterClient {
	return &HTTPRosterClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Table:   table,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchAll pages through the full roster table.
func (c *HTTPRosterClient) FetchAll(ctx context.Context) ([]RosterRecord, error) {
	var all []RosterRecord
	offset := ""
	for {
		page, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

func (c *HTTPRosterClient) fetchPage(ctx context.Context, offset string) (*rosterPage, error) {
	endpoint := c.BaseURL + "/" + url.PathEscape(c.Table)
	if offset != "" {
		endpoint += "?offset=" + url.QueryEscape(offset)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build roster request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("roster request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster API returned status %d", resp.StatusCode)
	}

	var page rosterPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode roster page: %w", err)
	}
	return &page, nil
}

func fieldString(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func fieldInt(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	default:
		return 0
	}
}

func fieldFloat(fields map[string]any, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	default:
		return 0
	}
}

// fieldList reads a key that may arrive either as a list or as a CSV string.
func fieldList(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

// MapRecord converts a directory row into a Therapist. Records without an
// email or a name are unusable and return false.
func MapRecord(rec RosterRecord) (models.Therapist, bool) {
	f := rec.Fields
	email := strings.ToLower(strings.TrimSpace(fieldString(f, "Email")))
	name := strings.TrimSpace(fieldString(f, "Name"))
	if email == "" || name == "" {
		return models.Therapist{}, false
	}

	priority := fieldString(f, "Priority")
	if priority == "" {
		priority = "low"
	}

	return models.Therapist{
		ID:                  rec.ID,
		Name:                name,
		Email:               email,
		Calendar:            fieldString(f, "Calendar"),
		AcceptingNewClients: fieldString(f, "Accepting New Clients"),
		Cohort:              fieldString(f, "Cohort"),
		Program:             fieldString(f, "Program"),
		MaxCaseload:         fieldInt(f, "Max Caseload"),
		CurrentCaseload:     fieldFloat(f, "Current Caseload"),
		States:              fieldString(f, "States"),
		StatesArray:         fieldList(f, "States"),
		Priority:            priority,
		Age:                 fieldString(f, "Age"),
		Gender:              fieldString(f, "Gender"),
		IdentitiesAs:        fieldString(f, "Identities as (Gender)"),
		Ethnicity:           fieldString(f, "Ethnicity"),

		GenderExperience:            fieldString(f, "Gender Experience"),
		SexualOrientationExperience: fieldString(f, "Sexual Orientation Experience"),
		NeurodivergenceExperience:   fieldString(f, "Neurodivergence Experience"),
		RiskExperience:              fieldString(f, "Risk Experience"),

		Religion:                       fieldString(f, "Religion"),
		Diagnoses:                      fieldString(f, "Diagnoses"),
		TherapeuticOrientation:         fieldString(f, "Therapeutic Orientation"),
		InternalTherapeuticOrientation: fieldString(f, "Internal Therapeutic Orientation"),
		Specialities:                   fieldString(f, "Specialities"),
		DiagnosesSpecialties:           fieldString(f, "Diagnoses + Specialties"),
		DiagnosesSpecialtiesArray:      fieldList(f, "Diagnoses + Specialties"),

		SocialMediaAffected:   fieldString(f, "Social Media Affected"),
		FamilyHousehold:       fieldString(f, "Family Household"),
		Culture:               fieldString(f, "Culture"),
		Places:                fieldString(f, "Places"),
		ImmigrationBackground: fieldString(f, "Immigration Background"),

		HasChildren:    fieldString(f, "Has Children"),
		Married:        fieldString(f, "Married"),
		CaretakerRole:  fieldString(f, "Caretaker Role"),
		LGBTQPart:      fieldString(f, "LGBTQ+ Part"),
		PerformingArts: fieldString(f, "Performing Arts"),

		IntroBio:        fieldString(f, "Intro Bios (Shortened)"),
		WelcomeVideo:    fieldString(f, "Welcome Video"),
		LastModified:    fieldString(f, "Last Modified"),
		FirstGeneration: fieldString(f, "First Generation"),
		HasJob:          fieldString(f, "Has Job"),
		CalendarSynced:  fieldString(f, "Calendar Synced"),
	}, true
}
