package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"carematch/services/matching"
	"carematch/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MatchTherapistsHandler runs the matching pipeline for a survey response.
func MatchTherapistsHandler(svc matching.MatchingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		responseID := c.Query("response_id")
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				limit = n
			}
		}

		resp, err := svc.Match(c.Request.Context(), responseID, limit)
		if err != nil {
			switch {
			case errors.Is(err, matching.ErrResponseIDRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": "response_id is required"})
			case errors.Is(err, matching.ErrClientNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Client response not found"})
			case errors.Is(err, matching.ErrStateRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Client state is required for matching"})
			default:
				logger.Error("match pipeline failed",
					zap.String("response_id", responseID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to match therapists"})
			}
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

type selectTherapistRequest struct {
	ResponseID     string `json:"response_id"`
	TherapistEmail string `json:"therapist_email"`
	TherapistName  string `json:"therapist_name"`
}

// SelectTherapistHandler records the client's pick before any booking happens.
func SelectTherapistHandler(svc matching.MatchingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req selectTherapistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "response_id is required"})
			return
		}

		result, err := svc.Select(c.Request.Context(), req.ResponseID, req.TherapistEmail, req.TherapistName)
		if err != nil {
			switch {
			case errors.Is(err, matching.ErrResponseIDRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": "response_id is required"})
			case errors.Is(err, matching.ErrTherapistRefRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": "therapist_email or therapist_name is required"})
			case errors.Is(err, matching.ErrClientNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Client response not found"})
			default:
				logger.Error("failed to record selection", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record selection"})
			}
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

type assignTherapistRequest struct {
	ResponseID     string `json:"response_id"`
	TherapistID    string `json:"therapist_id"`
	TherapistEmail string `json:"therapist_email"`
}

// AssignTherapistHandler binds a roster therapist to a client response.
func AssignTherapistHandler(svc matching.MatchingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req assignTherapistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "response_id is required"})
			return
		}

		result, err := svc.Assign(c.Request.Context(), req.ResponseID, req.TherapistID, req.TherapistEmail)
		if err != nil {
			switch {
			case errors.Is(err, matching.ErrResponseIDRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": "response_id is required"})
			case errors.Is(err, matching.ErrClientNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "ClientResponse not found"})
			case errors.Is(err, matching.ErrTherapistNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Therapist not found"})
			default:
				logger.Error("failed to assign therapist", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign therapist"})
			}
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// syncAppointmentRequest accepts both the scheduling system's Pascal-case
// field names and the snake_case names used elsewhere in the API.
type syncAppointmentRequest struct {
	ClientResponseID      string `json:"ClientResponseId"`
	ClientResponseIDSnake string `json:"client_response_id"`
	PractitionerEmail     string `json:"PractitionerEmail"`
	TherapistEmail        string `json:"therapist_email"`
	PractitionerName      string `json:"PractitionerName"`
	TherapistName         string `json:"therapist_name"`
	StartDateISO          string `json:"StartDateIso"`
	Start                 string `json:"start"`
	DurationMinutes       int    `json:"DurationMinutes"`
}

// SyncAppointmentHandler persists a confirmed booking pushed by the
// scheduling system.
func SyncAppointmentHandler(svc matching.MatchingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req syncAppointmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ClientResponseId is required"})
			return
		}

		sync := matching.AppointmentSync{
			ClientResponseID:  utils.Coalesce(req.ClientResponseID, req.ClientResponseIDSnake),
			PractitionerEmail: utils.Coalesce(req.PractitionerEmail, req.TherapistEmail),
			PractitionerName:  utils.Coalesce(req.PractitionerName, req.TherapistName),
			StartDateISO:      utils.Coalesce(req.StartDateISO, req.Start),
			DurationMinutes:   req.DurationMinutes,
		}

		result, err := svc.SyncAppointment(c.Request.Context(), sync)
		if err != nil {
			switch {
			case errors.Is(err, matching.ErrResponseIDRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": "ClientResponseId is required"})
			case errors.Is(err, matching.ErrClientNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "ClientResponse not found"})
			default:
				logger.Error("failed to sync appointment", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sync appointment"})
			}
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
