package matching

import (
	"sort"
	"strings"

	"carematch/models"
)

// ScoringConfig holds the point values behind the soft ranking factors.
type ScoringConfig struct {
	PriorityHigh    float64
	PriorityMedium  float64
	SpecialtyMatch  float64
	OrientationHit  float64
	LivedExperience float64
	ExplicitRequest float64
}

// DefaultScoringConfig returns the production point weights.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		PriorityHigh:    100,
		PriorityMedium:  50,
		SpecialtyMatch:  50,
		OrientationHit:  10,
		LivedExperience: 5,
		ExplicitRequest: 1000,
	}
}

// Scorer ranks eligible therapists against a client's intake response.
type Scorer struct {
	cfg ScoringConfig
}

// NewScorer builds a Scorer with the given weights.
func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// PriorityScore converts the roster priority flag into points. Unset or
// unknown values count as low.
func (s *Scorer) PriorityScore(t *models.Therapist) float64 {
	switch strings.ToLower(strings.TrimSpace(t.Priority)) {
	case "high":
		return s.cfg.PriorityHigh
	case "medium":
		return s.cfg.PriorityMedium
	default:
		return 0
	}
}

// ExperienceScore ranks the therapist's risk experience against the client's
// severity level. The more severe the client, the more the therapist's track
// record with risk cases matters. Low-experience therapists are ranked down,
// never excluded.
func (s *Scorer) ExperienceScore(severity int, t *models.Therapist) float64 {
	yesCount := strings.Count(strings.ToLower(t.RiskExperience), "yes")
	base := float64(yesCount * 10)
	if base > 20 {
		base = 20
	}

	switch severity {
	case SeverityLow:
		return base + 30
	case SeverityModerate:
		if yesCount >= 1 {
			return base + 25
		}
		return base + 15
	case SeverityHigh:
		if yesCount >= 1 {
			return base + 30
		}
		return base + 5
	case SeverityVeryHigh:
		switch {
		case yesCount >= 2:
			return base + 40
		case yesCount >= 1:
			return base + 15
		default:
			return base
		}
	default:
		return base
	}
}

// SpecialtyOverlap returns the canonical topics shared by the client request
// and the therapist profile, sorted for stable output.
func SpecialtyOverlap(c *models.ClientResponse, t *models.Therapist) []string {
	clientTopics := NormalizeTopicSet(c.SpecialtyRequests())
	therapistTopics := NormalizeTopicSet(t.SpecialtyTexts())

	var shared []string
	for topic := range clientTopics {
		if _, ok := therapistTopics[topic]; ok {
			shared = append(shared, topic)
		}
	}
	sort.Strings(shared)
	return shared
}

// OrientationScore awards points for every preference/orientation pair where
// either string contains the other, case-insensitive. Pairs are counted
// independently, so a preference matching two orientation tokens scores twice.
func (s *Scorer) OrientationScore(c *models.ClientResponse, t *models.Therapist) float64 {
	var orientations []string
	for _, tok := range strings.Split(t.OrientationText(), ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			orientations = append(orientations, strings.ToLower(tok))
		}
	}

	score := 0.0
	for _, pref := range c.OrientationPreferences() {
		p := strings.ToLower(pref)
		for _, o := range orientations {
			if strings.Contains(p, o) || strings.Contains(o, p) {
				score += s.cfg.OrientationHit
			}
		}
	}
	return score
}

// livedExperienceRules checks each shared background signal independently.
// The client side is a substring test against the joined lived-experience
// answers; the therapist side varies per rule.
var livedExperienceRules = []struct {
	clientKey string
	matches   func(t *models.Therapist) bool
}{
	{"non-traditional", func(t *models.Therapist) bool {
		return strings.Contains(strings.ToLower(t.FamilyHousehold), "non-traditional")
	}},
	{"generation immigrant", func(t *models.Therapist) bool {
		return strings.Contains(strings.ToLower(t.ImmigrationBackground), "gen immigrant")
	}},
	{"individualist", func(t *models.Therapist) bool {
		return strings.Contains(strings.ToLower(t.Culture), "individualist")
	}},
	{"collectivist", func(t *models.Therapist) bool {
		return strings.Contains(strings.ToLower(t.Culture), "collectivist")
	}},
	{"suburban", func(t *models.Therapist) bool {
		return strings.Contains(strings.ToLower(t.Places), "suburban")
	}},
	{"urban", func(t *models.Therapist) bool {
		return strings.Contains(strings.ToLower(t.Places), "urban")
	}},
	{"rural", func(t *models.Therapist) bool {
		return strings.Contains(strings.ToLower(t.Places), "rural")
	}},
	{"parent", func(t *models.Therapist) bool { return t.HasChildren == "Yes" }},
	{"caretaker", func(t *models.Therapist) bool { return t.CaretakerRole == "Yes" }},
	{"lgbtq", func(t *models.Therapist) bool { return t.LGBTQPart == "Yes" }},
	{"social media", func(t *models.Therapist) bool { return t.SocialMediaAffected != "" }},
}

// LivedExperienceScore awards points per shared background signal.
func (s *Scorer) LivedExperienceScore(c *models.ClientResponse, t *models.Therapist) float64 {
	var lowered []string
	for _, x := range c.LivedExperiences {
		lowered = append(lowered, strings.ToLower(x))
	}
	joined := strings.Join(lowered, " ")

	score := 0.0
	for _, rule := range livedExperienceRules {
		if strings.Contains(joined, rule.clientKey) && rule.matches(t) {
			score += s.cfg.LivedExperience
		}
	}
	return score
}

// SoftScore combines every ranking factor into a single score and returns
// the matched specialties alongside it.
func (s *Scorer) SoftScore(c *models.ClientResponse, t *models.Therapist) (float64, []string) {
	severity, _ := SeverityLevel(c)

	score := s.PriorityScore(t)
	score += s.ExperienceScore(severity, t)

	shared := SpecialtyOverlap(c, t)
	score += s.cfg.SpecialtyMatch * float64(len(shared))

	score += s.OrientationScore(c, t)
	score += s.LivedExperienceScore(c, t)

	return score, shared
}
