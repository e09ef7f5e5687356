package handlers

import (
	"net/http"

	"carematch/database/repository"
	"carematch/services/directory"
	"carematch/services/matching"
	"carematch/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SuperSyncHandler rebuilds the roster from the upstream directory. The
// existing records are dropped first, so this is the recovery path when the
// local data has drifted beyond repair.
func SuperSyncHandler(svc directory.SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		stats, entry, err := svc.Rebuild(c.Request.Context())
		if err != nil {
			logger.Error("super sync failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Super sync failed: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"message":          "Super sync completed - database rebuilt from directory",
			"stats":            stats,
			"duration_seconds": entry.DurationSeconds,
		})
	}
}

// RefreshTherapistsHandler upserts directory records without deleting
// anything.
func RefreshTherapistsHandler(svc directory.SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		stats, entry, err := svc.Refresh(c.Request.Context())
		if err != nil {
			logger.Error("therapist refresh failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Refresh failed: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"message":          "Therapist refresh completed (no data deleted)",
			"stats":            stats,
			"duration_seconds": entry.DurationSeconds,
		})
	}
}

// SyncStatusHandler reports roster counts and the most recent sync run.
func SyncStatusHandler(svc directory.SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		status, err := svc.Status()
		if err != nil {
			logger.Error("failed to compute sync status", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, status)
	}
}

type testMatchingRequest struct {
	State            string   `json:"state"`
	PaymentType      string   `json:"payment_type"`
	Specialties      []string `json:"specialties"`
	GenderPreference string   `json:"gender_preference"`
}

// TestMatchingHandler dry-runs the hard filters against the live roster so
// operators can see how big the candidate pool is for a given client
// profile.
func TestMatchingHandler(repo repository.TherapistRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		req := testMatchingRequest{
			State:       "NY",
			PaymentType: "cash_pay",
			Specialties: []string{"Anxiety", "Depression"},
		}
		_ = c.ShouldBindJSON(&req)

		programs := matching.EligiblePrograms(req.PaymentType)
		logger.Info("test matching",
			zap.String("state", req.State),
			zap.String("payment_type", req.PaymentType),
			zap.Strings("programs", programs))

		eligible, err := repo.FindEligible(repository.EligibilityFilter{
			Programs: programs,
			State:    req.State,
		})
		if err != nil {
			logger.Error("test matching query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if matching.HasGenderPreference(req.GenderPreference) {
			eligible = matching.FilterByGender(req.GenderPreference, eligible)
		}

		programCounts := make(map[string]int)
		for i := range eligible {
			program := eligible[i].Program
			if program == "" {
				program = "Unknown"
			}
			programCounts[program]++
		}

		samples := make([]gin.H, 0, 5)
		for i := range eligible {
			if i >= 5 {
				break
			}
			t := &eligible[i]
			samples = append(samples, gin.H{
				"name":              t.Name,
				"email":             t.Email,
				"program":           t.Program,
				"states":            t.StatesArray,
				"accepting":         t.AcceptingNewClients,
				"gender":            utils.Coalesce(t.Gender, t.IdentitiesAs),
				"specialties_count": len(t.SpecialtyTexts()),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"test_criteria": gin.H{
				"state":                 req.State,
				"payment_type":          req.PaymentType,
				"eligible_programs":     programs,
				"gender_preference":     utils.Coalesce(req.GenderPreference, "none"),
				"requested_specialties": req.Specialties,
			},
			"summary": gin.H{
				"total_eligible":       len(eligible),
				"breakdown_by_program": programCounts,
				"sample_therapists":    samples,
			},
		})
	}
}
