package clientRepo

import (
	"time"

	"carematch/models"
)

// ClientRepository defines methods for intake response data access.
type ClientRepository interface {
	// GetByID retrieves a client response by its unique ID.
	GetByID(id string) (*models.ClientResponse, error)
	// Create inserts a new client response record.
	Create(c *models.ClientResponse) error
	// RecordSuggestions stores the algorithm's top pick and the full ranked
	// list of alternatives for an intake response.
	RecordSuggestions(id string, topID, topName string, topScore float64, alts models.AlternativeSummary) error
	// RecordSelection marks the response as matched with the therapist the
	// client chose, keeping the request's name and email verbatim.
	RecordSelection(id string, therapistID, therapistEmail, therapistName string) error
	// RecordAssignment marks a therapist as matched ahead of booking.
	RecordAssignment(id string, t *models.Therapist) error
	// RecordBooking upgrades the response to booked with the confirmed slot.
	RecordBooking(id string, t *models.Therapist, slotStart, slotEnd *time.Time) error
}
