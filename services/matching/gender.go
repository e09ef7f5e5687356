package matching

import (
	"strings"

	"carematch/models"
)

// noPreferenceValues skip gender filtering entirely.
var noPreferenceValues = map[string]struct{}{
	"":              {},
	"no preference": {},
	"any":           {},
	"none":          {},
}

var nonBinaryValues = map[string]struct{}{
	"non-binary": {},
	"nonbinary":  {},
	"non binary": {},
	"non_binary": {},
}

// HasGenderPreference reports whether the client's preference should
// constrain the candidate pool.
func HasGenderPreference(pref string) bool {
	_, skip := noPreferenceValues[strings.ToLower(strings.TrimSpace(pref))]
	return !skip
}

// MatchesGenderPreference tests a therapist's self-described identity
// against the client preference. Binary preferences only match exact values
// or values that open with the gender word, so "female" never matches a
// therapist row reading "prefers female clients". Non-binary matches the
// common spellings anywhere in the string.
func MatchesGenderPreference(pref string, t *models.Therapist) bool {
	p := strings.ToLower(strings.TrimSpace(pref))
	identity := t.GenderIdentity()

	switch p {
	case "male":
		return identity == "male" ||
			strings.HasPrefix(identity, "male ") ||
			strings.HasPrefix(identity, "male(")
	case "female":
		return identity == "female" ||
			strings.HasPrefix(identity, "female ") ||
			strings.HasPrefix(identity, "female(")
	}

	if _, ok := nonBinaryValues[p]; ok {
		if _, ok := nonBinaryValues[identity]; ok {
			return true
		}
		return strings.Contains(identity, "non-binary") ||
			strings.Contains(identity, "nonbinary") ||
			strings.Contains(identity, "non binary")
	}

	return false
}

// FilterByGender keeps only therapists matching the preference. When the
// client expressed no preference the input is returned unchanged.
func FilterByGender(pref string, therapists []models.Therapist) []models.Therapist {
	if !HasGenderPreference(pref) {
		return therapists
	}
	var out []models.Therapist
	for i := range therapists {
		if MatchesGenderPreference(pref, &therapists[i]) {
			out = append(out, therapists[i])
		}
	}
	return out
}
