package utils

import "strings"

// truthyVariants is the full set of string variants that upstream roster data
// uses for an affirmative flag. Keep the list here; call sites must not grow
// their own variants.
var truthyVariants = []string{"yes", "true", "checked", "1", "t", "y"}

var truthySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(truthyVariants))
	for _, v := range truthyVariants {
		set[v] = struct{}{}
	}
	return set
}()

// ParseBooleanFlag normalizes a loosely-typed roster flag ("Yes", "true",
// "checked", "1", "t", "y") to a bool. Anything else is false.
func ParseBooleanFlag(raw string) bool {
	_, ok := truthySet[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// TruthyPattern returns an anchored regex matching exactly the variants
// ParseBooleanFlag accepts, for queries that filter in the database. Callers
// apply it case-insensitively.
func TruthyPattern() string {
	return "^(" + strings.Join(truthyVariants, "|") + ")$"
}

// Coalesce returns the first argument that is non-blank after trimming.
// Callers decide precedence by argument order.
func Coalesce(fields ...string) string {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return f
		}
	}
	return ""
}
