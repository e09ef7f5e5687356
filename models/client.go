package models

import (
	"strings"
	"time"
)

// ClientResponse is a completed intake survey for a prospective client.
type ClientResponse struct {
	ID        string `bson:"id" json:"id"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	FirstName string `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`

	Age           string `bson:"age,omitempty" json:"age,omitempty"`
	Gender        string `bson:"gender,omitempty" json:"gender,omitempty"`
	State         string `bson:"state,omitempty" json:"state,omitempty"`
	StreetAddress string `bson:"street_address,omitempty" json:"street_address,omitempty"`
	City          string `bson:"city,omitempty" json:"city,omitempty"`
	PostalCode    string `bson:"postal_code,omitempty" json:"postal_code,omitempty"`
	University    string `bson:"university,omitempty" json:"university,omitempty"`

	PaymentType                string   `bson:"payment_type,omitempty" json:"payment_type,omitempty"`
	TherapistSpecializesIn     []string `bson:"therapist_specializes_in,omitempty" json:"therapist_specializes_in,omitempty"`
	TherapistIdentifiesAs      string   `bson:"therapist_identifies_as,omitempty" json:"therapist_identifies_as,omitempty"`
	TherapistGenderPreference  string   `bson:"therapist_gender_preference,omitempty" json:"therapist_gender_preference,omitempty"`
	LivedExperiences           []string `bson:"lived_experiences,omitempty" json:"lived_experiences,omitempty"`
	Diagnoses                  []string `bson:"diagnoses,omitempty" json:"diagnoses,omitempty"`
	Topics                     []string `bson:"topics,omitempty" json:"topics,omitempty"`
	Concerns                   []string `bson:"concerns,omitempty" json:"concerns,omitempty"`
	TherapyPreferences         []string `bson:"therapy_preferences,omitempty" json:"therapy_preferences,omitempty"`
	TherapeuticPreferences     []string `bson:"therapeutic_preferences,omitempty" json:"therapeutic_preferences,omitempty"`
	WhatBringsYou              string   `bson:"what_brings_you,omitempty" json:"what_brings_you,omitempty"`
	InsuranceProvider          string   `bson:"insurance_provider,omitempty" json:"insurance_provider,omitempty"`
	InsuranceMemberID          string   `bson:"insurance_member_id,omitempty" json:"insurance_member_id,omitempty"`
	InsuranceVerified          bool     `bson:"insurance_verified,omitempty" json:"insurance_verified,omitempty"`

	PHQ9Total        *int   `bson:"phq9_total,omitempty" json:"phq9_total,omitempty"`
	GAD7Total        *int   `bson:"gad7_total,omitempty" json:"gad7_total,omitempty"`
	SuicidalThoughts string `bson:"suicidal_thoughts,omitempty" json:"suicidal_thoughts,omitempty"`
	SafetyScreening  string `bson:"safety_screening,omitempty" json:"safety_screening,omitempty"`

	SelectedTherapist      string `bson:"selected_therapist,omitempty" json:"selected_therapist,omitempty"`
	SelectedTherapistID    string `bson:"selected_therapist_id,omitempty" json:"selected_therapist_id,omitempty"`
	SelectedTherapistEmail string `bson:"selected_therapist_email,omitempty" json:"selected_therapist_email,omitempty"`
	MatchingPreference     string `bson:"matching_preference,omitempty" json:"matching_preference,omitempty"`

	AlgorithmSuggestedTherapistID    string         `bson:"algorithm_suggested_therapist_id,omitempty" json:"algorithm_suggested_therapist_id,omitempty"`
	AlgorithmSuggestedTherapistName  string         `bson:"algorithm_suggested_therapist_name,omitempty" json:"algorithm_suggested_therapist_name,omitempty"`
	AlgorithmSuggestedTherapistScore float64        `bson:"algorithm_suggested_therapist_score,omitempty" json:"algorithm_suggested_therapist_score,omitempty"`
	AlternativeTherapistsOffered     map[string]any `bson:"alternative_therapists_offered,omitempty" json:"alternative_therapists_offered,omitempty"`
	UserChoseAlternative             bool           `bson:"user_chose_alternative,omitempty" json:"user_chose_alternative,omitempty"`
	TherapistSelectionTimestamp      time.Time      `bson:"therapist_selection_timestamp,omitempty" json:"therapist_selection_timestamp,omitempty"`

	PromoCode   string `bson:"promo_code,omitempty" json:"promo_code,omitempty"`
	ReferredBy  string `bson:"referred_by,omitempty" json:"referred_by,omitempty"`
	UTMSource   string `bson:"utm_source,omitempty" json:"utm_source,omitempty"`
	UTMMedium   string `bson:"utm_medium,omitempty" json:"utm_medium,omitempty"`
	UTMCampaign string `bson:"utm_campaign,omitempty" json:"utm_campaign,omitempty"`

	MatchStatus           string    `bson:"match_status,omitempty" json:"match_status,omitempty"`
	MatchedTherapistID    string    `bson:"matched_therapist_id,omitempty" json:"matched_therapist_id,omitempty"`
	MatchedTherapistEmail string    `bson:"matched_therapist_email,omitempty" json:"matched_therapist_email,omitempty"`
	MatchedTherapistName  string    `bson:"matched_therapist_name,omitempty" json:"matched_therapist_name,omitempty"`
	MatchedSlotStart      time.Time `bson:"matched_slot_start,omitempty" json:"matched_slot_start,omitempty"`
	MatchedSlotEnd        time.Time `bson:"matched_slot_end,omitempty" json:"matched_slot_end,omitempty"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// NormalizedPaymentType returns the lowercased payment type, defaulting to
// cash_pay when the survey left it blank.
func (c *ClientResponse) NormalizedPaymentType() string {
	pt := strings.ToLower(strings.TrimSpace(c.PaymentType))
	if pt == "" {
		return "cash_pay"
	}
	return pt
}

// NormalizedState returns the uppercased trimmed state value.
func (c *ClientResponse) NormalizedState() string {
	return strings.ToUpper(strings.TrimSpace(c.State))
}

// SpecialtyRequests combines every survey field that can name a topic the
// client wants help with.
func (c *ClientResponse) SpecialtyRequests() []string {
	var out []string
	out = append(out, c.TherapistSpecializesIn...)
	out = append(out, c.Diagnoses...)
	out = append(out, c.Topics...)
	out = append(out, c.Concerns...)
	return out
}

// OrientationPreferences returns the therapy style preferences, with the
// older survey column as fallback.
func (c *ClientResponse) OrientationPreferences() []string {
	if len(c.TherapyPreferences) > 0 {
		return c.TherapyPreferences
	}
	return c.TherapeuticPreferences
}

// GenderPreference returns the lowercased trimmed gender preference string.
func (c *ClientResponse) GenderPreference() string {
	return strings.ToLower(strings.TrimSpace(c.TherapistIdentifiesAs))
}

// RequestedTherapistName returns the explicitly selected therapist name.
func (c *ClientResponse) RequestedTherapistName() string {
	return strings.TrimSpace(c.SelectedTherapist)
}

// RequestedTherapistEmail returns the explicitly selected therapist email.
func (c *ClientResponse) RequestedTherapistEmail() string {
	return strings.TrimSpace(c.SelectedTherapistEmail)
}
