package handlers

import (
	"carematch/database/repository"
	"carematch/services/calendar"
	"carematch/services/directory"
	"carematch/services/matching"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	TherapistRepo repository.TherapistRepository
	ClientRepo    repository.ClientRepository

	// Matching endpoints
	MatchTherapistsHandler gin.HandlerFunc
	SelectTherapistHandler gin.HandlerFunc
	AssignTherapistHandler gin.HandlerFunc
	SyncAppointmentHandler gin.HandlerFunc

	// Therapist directory endpoints
	SearchTherapistsHandler gin.HandlerFunc
	AvailableStatesHandler  gin.HandlerFunc
	TherapistSlotsHandler   gin.HandlerFunc

	// Admin endpoints
	SuperSyncHandler         gin.HandlerFunc
	RefreshTherapistsHandler gin.HandlerFunc
	SyncStatusHandler        gin.HandlerFunc
	TestMatchingHandler      gin.HandlerFunc
}

// NewHandlerBundle wires every handler with its service dependencies.
func NewHandlerBundle(
	matchSvc matching.MatchingService,
	syncSvc directory.SyncService,
	checker calendar.AvailabilityChecker,
	therapistRepo repository.TherapistRepository,
	clientRepo repository.ClientRepository,
) *HandlerBundle {
	return &HandlerBundle{
		TherapistRepo: therapistRepo,
		ClientRepo:    clientRepo,

		MatchTherapistsHandler: MatchTherapistsHandler(matchSvc),
		SelectTherapistHandler: SelectTherapistHandler(matchSvc),
		AssignTherapistHandler: AssignTherapistHandler(matchSvc),
		SyncAppointmentHandler: SyncAppointmentHandler(matchSvc),

		SearchTherapistsHandler: SearchTherapistsHandler(therapistRepo),
		AvailableStatesHandler:  AvailableStatesHandler(therapistRepo),
		TherapistSlotsHandler:   TherapistSlotsHandler(checker, clientRepo, therapistRepo),

		SuperSyncHandler:         SuperSyncHandler(syncSvc),
		RefreshTherapistsHandler: RefreshTherapistsHandler(syncSvc),
		SyncStatusHandler:        SyncStatusHandler(syncSvc),
		TestMatchingHandler:      TestMatchingHandler(therapistRepo),
	}
}
