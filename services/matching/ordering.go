package matching

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"carematch/models"
)

// RankWithTies orders results by score descending. Results sharing a score
// are shuffled so equally ranked therapists rotate fairly between requests.
func RankWithTies(results []models.MatchResult, rng *rand.Rand) []models.MatchResult {
	groups := make(map[float64][]models.MatchResult)
	for _, r := range results {
		groups[r.Score] = append(groups[r.Score], r)
	}

	scores := make([]float64, 0, len(groups))
	for score := range groups {
		scores = append(scores, score)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	ranked := make([]models.MatchResult, 0, len(results))
	for _, score := range scores {
		group := groups[score]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		ranked = append(ranked, group...)
	}
	return ranked
}

// BoostSimilarAge moves up to three therapists within five years of the
// client's age to the front of the list. Remaining similar-age therapists
// keep their position behind everyone else, matching the original ordering
// contract. Unparseable ages leave the list untouched.
func BoostSimilarAge(results []models.MatchResult, clientAge string) []models.MatchResult {
	age, err := strconv.Atoi(strings.TrimSpace(clientAge))
	if err != nil {
		return results
	}

	var similar, others []models.MatchResult
	for _, r := range results {
		tAge, err := strconv.Atoi(strings.TrimSpace(r.Therapist.Age))
		if err != nil {
			others = append(others, r)
			continue
		}
		diff := tAge - age
		if diff < 0 {
			diff = -diff
		}
		if diff <= 5 {
			similar = append(similar, r)
		} else {
			others = append(others, r)
		}
	}

	head := similar
	var tail []models.MatchResult
	if len(similar) > 3 {
		head = similar[:3]
		tail = similar[3:]
	}

	out := make([]models.MatchResult, 0, len(results))
	out = append(out, head...)
	out = append(out, others...)
	out = append(out, tail...)
	return out
}
