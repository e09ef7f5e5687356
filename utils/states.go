package utils

import "strings"

// StateNameToAbbr maps full US state/territory names to postal abbreviations.
var StateNameToAbbr = map[string]string{
	"Alabama": "AL", "Alaska": "AK", "Arizona": "AZ", "Arkansas": "AR",
	"California": "CA", "Colorado": "CO", "Connecticut": "CT", "Delaware": "DE",
	"Florida": "FL", "Georgia": "GA", "Hawaii": "HI", "Idaho": "ID",
	"Illinois": "IL", "Indiana": "IN", "Iowa": "IA", "Kansas": "KS",
	"Kentucky": "KY", "Louisiana": "LA", "Maine": "ME", "Maryland": "MD",
	"Massachusetts": "MA", "Michigan": "MI", "Minnesota": "MN", "Mississippi": "MS",
	"Missouri": "MO", "Montana": "MT", "Nebraska": "NE", "Nevada": "NV",
	"New Hampshire": "NH", "New Jersey": "NJ", "New Mexico": "NM", "New York": "NY",
	"North Carolina": "NC", "North Dakota": "ND", "Ohio": "OH", "Oklahoma": "OK",
	"Oregon": "OR", "Pennsylvania": "PA", "Rhode Island": "RI", "South Carolina": "SC",
	"South Dakota": "SD", "Tennessee": "TN", "Texas": "TX", "Utah": "UT",
	"Vermont": "VT", "Virginia": "VA", "Washington": "WA", "West Virginia": "WV",
	"Wisconsin": "WI", "Wyoming": "WY",
	"District of Columbia": "DC",
	"American Samoa":       "AS", "Guam": "GU", "Northern Mariana Islands": "MP",
	"Puerto Rico": "PR", "U.S. Virgin Islands": "VI", "Virgin Islands": "VI",
}

// AbbrToStateName is the reverse of StateNameToAbbr.
var AbbrToStateName = func() map[string]string {
	m := make(map[string]string, len(StateNameToAbbr))
	for name, abbr := range StateNameToAbbr {
		m[abbr] = name
	}
	return m
}()

// stateVariations covers common punctuated/abbreviated spellings seen in
// survey input.
var stateVariations = map[string]string{
	"D.C.": "DC", "Washington D.C.": "DC", "Washington DC": "DC",
	"N.Y.": "NY", "N.J.": "NJ", "N.H.": "NH", "N.M.": "NM",
	"N.C.": "NC", "N.D.": "ND", "S.C.": "SC", "S.D.": "SD", "W.V.": "WV",
	"Calif.": "CA", "Fla.": "FL", "Ill.": "IL", "Mass.": "MA", "Mich.": "MI",
	"Minn.": "MN", "Miss.": "MS", "Penn.": "PA", "Tenn.": "TN", "Tex.": "TX",
	"Wash.": "WA", "Wisc.": "WI",
}

// StateAbbreviation normalizes free-text state input to a postal abbreviation.
// Unrecognized input is returned as-is.
func StateAbbreviation(input string) string {
	if input == "" {
		return ""
	}
	s := strings.TrimSpace(input)
	if _, ok := AbbrToStateName[strings.ToUpper(s)]; ok {
		return strings.ToUpper(s)
	}
	if abbr, ok := stateVariations[s]; ok {
		return abbr
	}
	for name, abbr := range StateNameToAbbr {
		if strings.EqualFold(name, s) {
			return abbr
		}
	}
	sLow := strings.ToLower(s)
	for name, abbr := range StateNameToAbbr {
		nameLow := strings.ToLower(name)
		if strings.Contains(nameLow, sLow) || strings.Contains(sLow, nameLow) {
			return abbr
		}
	}
	return s
}

// StateName resolves an abbreviation back to the full state name.
func StateName(abbr string) string {
	if abbr == "" {
		return ""
	}
	a := strings.ToUpper(strings.TrimSpace(abbr))
	if name, ok := AbbrToStateName[a]; ok {
		return name
	}
	return a
}

// IsValidState reports whether input resolves to a known state or territory.
func IsValidState(input string) bool {
	if input == "" {
		return false
	}
	s := strings.TrimSpace(input)
	if _, ok := AbbrToStateName[strings.ToUpper(s)]; ok {
		return true
	}
	if _, ok := stateVariations[s]; ok {
		return true
	}
	for name := range StateNameToAbbr {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

// stateTimezones holds the primary IANA timezone per state/territory.
var stateTimezones = map[string]string{
	// Eastern
	"CT": "America/New_York", "DE": "America/New_York", "DC": "America/New_York",
	"FL": "America/New_York", "GA": "America/New_York", "ME": "America/New_York",
	"MD": "America/New_York", "MA": "America/New_York", "NH": "America/New_York",
	"NJ": "America/New_York", "NY": "America/New_York", "NC": "America/New_York",
	"OH": "America/New_York", "PA": "America/New_York", "RI": "America/New_York",
	"SC": "America/New_York", "VT": "America/New_York", "VA": "America/New_York",
	"WV": "America/New_York", "MI": "America/New_York", "IN": "America/New_York",
	"KY": "America/New_York",
	// Central
	"AL": "America/Chicago", "AR": "America/Chicago", "IL": "America/Chicago",
	"IA": "America/Chicago", "LA": "America/Chicago", "MN": "America/Chicago",
	"MS": "America/Chicago", "MO": "America/Chicago", "OK": "America/Chicago",
	"WI": "America/Chicago", "TX": "America/Chicago", "TN": "America/Chicago",
	"KS": "America/Chicago", "NE": "America/Chicago", "SD": "America/Chicago",
	"ND": "America/Chicago",
	// Mountain
	"AZ": "America/Phoenix", "CO": "America/Denver", "ID": "America/Denver",
	"MT": "America/Denver", "NM": "America/Denver", "UT": "America/Denver",
	"WY": "America/Denver",
	// Pacific
	"CA": "America/Los_Angeles", "NV": "America/Los_Angeles",
	"OR": "America/Los_Angeles", "WA": "America/Los_Angeles",
	// Alaska/Hawaii and territories
	"AK": "America/Anchorage", "HI": "Pacific/Honolulu",
	"PR": "America/Puerto_Rico", "VI": "America/Virgin",
	"GU": "Pacific/Guam", "AS": "Pacific/Samoa", "MP": "Pacific/Saipan",
}

// StateTimezone maps a state abbreviation to its primary IANA timezone.
// Defaults to Eastern.
func StateTimezone(abbr string) string {
	if tz, ok := stateTimezones[strings.ToUpper(strings.TrimSpace(abbr))]; ok {
		return tz
	}
	return "America/New_York"
}

// ValidLicensedState reports whether target appears in licensedStates after
// normalizing both sides.
func ValidLicensedState(target string, licensedStates []string) bool {
	if target == "" || len(licensedStates) == 0 {
		return false
	}
	want := StateAbbreviation(target)
	for _, s := range licensedStates {
		if StateAbbreviation(s) == want {
			return true
		}
	}
	return false
}
