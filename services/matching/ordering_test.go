package matching

import (
	"math/rand"
	"testing"

	"carematch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(name string, score float64, age string) models.MatchResult {
	return models.MatchResult{
		Therapist: models.TherapistPublic{Name: name, Age: age},
		Score:     score,
	}
}

func TestRankWithTiesOrdersByScoreDesc(t *testing.T) {
	results := []models.MatchResult{
		result("low", 10, ""),
		result("high", 100, ""),
		result("mid", 50, ""),
	}
	ranked := RankWithTies(results, rand.New(rand.NewSource(1)))

	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].Therapist.Name)
	assert.Equal(t, "mid", ranked[1].Therapist.Name)
	assert.Equal(t, "low", ranked[2].Therapist.Name)
}

func TestRankWithTiesKeepsAllMembers(t *testing.T) {
	results := []models.MatchResult{
		result("a", 50, ""),
		result("b", 50, ""),
		result("c", 50, ""),
		result("d", 20, ""),
	}
	ranked := RankWithTies(results, rand.New(rand.NewSource(7)))

	require.Len(t, ranked, 4)
	seen := map[string]bool{}
	for _, r := range ranked[:3] {
		assert.Equal(t, 50.0, r.Score)
		seen[r.Therapist.Name] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, "d", ranked[3].Therapist.Name)
}

func TestRankWithTiesDeterministicWithSeed(t *testing.T) {
	results := []models.MatchResult{
		result("a", 50, ""), result("b", 50, ""), result("c", 50, ""),
	}
	first := RankWithTies(append([]models.MatchResult(nil), results...), rand.New(rand.NewSource(42)))
	second := RankWithTies(append([]models.MatchResult(nil), results...), rand.New(rand.NewSource(42)))
	assert.Equal(t, first, second)
}

func TestBoostSimilarAgePromotesUpToThree(t *testing.T) {
	results := []models.MatchResult{
		result("far1", 90, "50"),
		result("near1", 80, "27"),
		result("near2", 70, "30"),
		result("near3", 60, "25"),
		result("near4", 50, "29"),
		result("far2", 40, "45"),
	}
	boosted := BoostSimilarAge(results, "28")

	require.Len(t, boosted, 6)
	assert.Equal(t, "near1", boosted[0].Therapist.Name)
	assert.Equal(t, "near2", boosted[1].Therapist.Name)
	assert.Equal(t, "near3", boosted[2].Therapist.Name)
	// Extra similar-age therapists fall behind the rest.
	assert.Equal(t, "far1", boosted[3].Therapist.Name)
	assert.Equal(t, "far2", boosted[4].Therapist.Name)
	assert.Equal(t, "near4", boosted[5].Therapist.Name)
}

func TestBoostSimilarAgeUnparseableClientAge(t *testing.T) {
	results := []models.MatchResult{
		result("a", 90, "50"),
		result("b", 80, "27"),
	}
	assert.Equal(t, results, BoostSimilarAge(results, "twenty-eight"))
	assert.Equal(t, results, BoostSimilarAge(results, ""))
}

func TestBoostSimilarAgeUnparseableTherapistAge(t *testing.T) {
	results := []models.MatchResult{
		result("noage", 90, ""),
		result("near", 80, "30"),
	}
	boosted := BoostSimilarAge(results, "28")
	assert.Equal(t, "near", boosted[0].Therapist.Name)
	assert.Equal(t, "noage", boosted[1].Therapist.Name)
}
