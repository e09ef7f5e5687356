package matching

import "carematch/models"

// Severity levels derived from intake assessment scores.
const (
	SeverityLow      = 0
	SeverityModerate = 1
	SeverityHigh     = 2
	SeverityVeryHigh = 3
)

// suicidalThoughtScores maps the intake answer about suicidal thoughts to a
// numeric weight.
var suicidalThoughtScores = map[string]int{
	"Not at all":              0,
	"Several days":            1,
	"More than half the days": 2,
	"Nearly every day":        3,
}

// SeverityLevel assesses the client's severity from PHQ-9, GAD-7 and the
// suicidal thoughts answer. Suicidal ideation always dominates the score
// thresholds. Missing scores count as zero.
func SeverityLevel(c *models.ClientResponse) (int, string) {
	phq9 := 0
	if c.PHQ9Total != nil {
		phq9 = *c.PHQ9Total
	}
	gad7 := 0
	if c.GAD7Total != nil {
		gad7 = *c.GAD7Total
	}

	sui := 0
	if c.SuicidalThoughts != "" {
		sui = suicidalThoughtScores[c.SuicidalThoughts]
	}

	switch {
	case sui >= 3:
		return SeverityVeryHigh, "Daily suicidal ideation"
	case sui >= 2:
		return SeverityVeryHigh, "Frequent suicidal ideation"
	case sui >= 1:
		return SeverityHigh, "Some suicidal ideation"
	}

	if phq9 > 20 || gad7 >= 15 {
		return SeverityVeryHigh, severityReason(phq9, gad7, 20, 15, "Severe depression", "Severe anxiety")
	}
	if phq9 > 14 || gad7 >= 10 {
		return SeverityHigh, severityReason(phq9, gad7, 14, 10, "Moderately severe depression", "Moderate-severe anxiety")
	}
	if phq9 >= 10 || gad7 >= 8 {
		return SeverityModerate, severityReason(phq9, gad7, 9, 8, "Moderate depression", "Mild-moderate anxiety")
	}
	return SeverityLow, "Low severity scores"
}

func severityReason(phq9, gad7, phqThreshold, gadThreshold int, phqLabel, gadLabel string) string {
	reason := ""
	if phq9 > phqThreshold {
		reason = phqLabel
	}
	if gad7 >= gadThreshold {
		if reason != "" {
			reason += "; "
		}
		reason += gadLabel
	}
	return reason
}
