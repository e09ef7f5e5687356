package matching

import "strings"

// Canonical topics used for specialty overlap between client requests and
// therapist profiles.
const (
	TopicADHD           = "ADHD"
	TopicAnxiety        = "Anxiety"
	TopicBodyImage      = "Body image"
	TopicConfidence     = "Building confidence"
	TopicCareerStress   = "Career/academic stress"
	TopicDepression     = "Depression"
	TopicEating         = "Eating disorders"
	TopicEmotionalReg   = "Emotional regulation"
	TopicFamilyLife     = "Family life"
	TopicGriefLoss      = "Grief and loss"
	TopicLGBTQ          = "LGBTQ+ identity"
	TopicTransitions    = "Life transitions"
	TopicLoneliness     = "Loneliness"
	TopicOCD            = "OCD"
	TopicPanicAttacks   = "Panic attacks"
	TopicPhobias        = "Phobias"
	TopicPTSD           = "PTSD"
	TopicRelationships  = "Relationship challenges"
	TopicStressBurnout  = "Stress and burnout"
	TopicTrauma         = "Trauma"
)

var canonicalTopics = map[string]string{
	"adhd":                    TopicADHD,
	"anxiety":                 TopicAnxiety,
	"body image":              TopicBodyImage,
	"building confidence":     TopicConfidence,
	"career/academic stress":  TopicCareerStress,
	"depression":              TopicDepression,
	"eating disorders":        TopicEating,
	"emotional regulation":    TopicEmotionalReg,
	"family life":             TopicFamilyLife,
	"grief and loss":          TopicGriefLoss,
	"lgbtq+ identity":         TopicLGBTQ,
	"life transitions":        TopicTransitions,
	"loneliness":              TopicLoneliness,
	"ocd":                     TopicOCD,
	"panic attacks":           TopicPanicAttacks,
	"phobias":                 TopicPhobias,
	"ptsd":                    TopicPTSD,
	"relationship challenges": TopicRelationships,
	"stress and burnout":      TopicStressBurnout,
	"trauma":                  TopicTrauma,
}

// synonymRules are evaluated in order. The first matching rule wins, so
// narrower topics like panic attacks must be checked before broad ones
// like anxiety would swallow them.
var synonymRules = []struct {
	topic string
	match func(s string) bool
}{
	{TopicADHD, func(s string) bool { return strings.Contains(s, "adhd") }},
	{TopicAnxiety, func(s string) bool {
		return strings.Contains(s, "anxiety") && !strings.Contains(s, "panic") && !strings.Contains(s, "phobia")
	}},
	{TopicPanicAttacks, func(s string) bool { return strings.Contains(s, "panic") }},
	{TopicPhobias, func(s string) bool { return strings.Contains(s, "phobia") }},
	{TopicBodyImage, func(s string) bool {
		return strings.Contains(s, "body image") || strings.Contains(s, "body-image")
	}},
	{TopicConfidence, func(s string) bool { return strings.Contains(s, "confidence") }},
	{TopicCareerStress, func(s string) bool {
		return strings.Contains(s, "career") || strings.Contains(s, "academic") || strings.Contains(s, "school")
	}},
	{TopicDepression, func(s string) bool { return strings.Contains(s, "depress") }},
	{TopicEating, func(s string) bool {
		return strings.Contains(s, "eating") && (strings.Contains(s, "disorder") || strings.Contains(s, "food"))
	}},
	{TopicEmotionalReg, func(s string) bool {
		return strings.Contains(s, "emotional regulation") ||
			(strings.Contains(s, "emotion") && strings.Contains(s, "regulation"))
	}},
	{TopicFamilyLife, func(s string) bool { return strings.Contains(s, "family") }},
	{TopicGriefLoss, func(s string) bool {
		return strings.Contains(s, "grief") || strings.Contains(s, "loss")
	}},
	{TopicLGBTQ, func(s string) bool { return strings.Contains(s, "lgbt") }},
	{TopicTransitions, func(s string) bool { return strings.Contains(s, "transition") }},
	{TopicLoneliness, func(s string) bool {
		return strings.Contains(s, "loneliness") || strings.Contains(s, "lonely")
	}},
	{TopicOCD, func(s string) bool {
		return strings.Contains(s, "ocd") || strings.Contains(s, "obsessive")
	}},
	{TopicPTSD, func(s string) bool {
		return strings.Contains(s, "ptsd") || (strings.Contains(s, "post") && strings.Contains(s, "trauma"))
	}},
	{TopicRelationships, func(s string) bool { return strings.Contains(s, "relationship") }},
	{TopicStressBurnout, func(s string) bool {
		return strings.Contains(s, "stress") || strings.Contains(s, "burnout")
	}},
	{TopicTrauma, func(s string) bool { return strings.Contains(s, "trauma") }},
}

// NormalizeTopic maps a free-text topic to its canonical form. It returns
// an empty string when nothing recognizable is found.
func NormalizeTopic(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if canonical, ok := canonicalTopics[s]; ok {
		return canonical
	}
	for _, rule := range synonymRules {
		if rule.match(s) {
			return rule.topic
		}
	}
	return ""
}

// NormalizeTopicSet normalizes every entry and collects the distinct
// canonical topics.
func NormalizeTopicSet(raw []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, r := range raw {
		if topic := NormalizeTopic(r); topic != "" {
			out[topic] = struct{}{}
		}
	}
	return out
}
