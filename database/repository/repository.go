package repository

import (
	clientRepo "carematch/database/repository/client"
	syncRepo "carematch/database/repository/synclog"
	therapistRepo "carematch/database/repository/therapist"
)

// Re-export the TherapistRepository interface and constructor.
type TherapistRepository = therapistRepo.TherapistRepository

type EligibilityFilter = therapistRepo.EligibilityFilter

var NewMongoTherapistRepo = therapistRepo.NewMongoTherapistRepo

// Re-export the ClientRepository interface and constructor.
type ClientRepository = clientRepo.ClientRepository

var NewMongoClientRepo = clientRepo.NewMongoClientRepo

// Re-export the SyncLogRepository interface and constructor.
type SyncLogRepository = syncRepo.SyncLogRepository

var NewMongoSyncLogRepo = syncRepo.NewMongoSyncLogRepo
