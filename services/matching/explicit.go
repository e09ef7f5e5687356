package matching

import (
	"strings"

	"carematch/models"

	"go.uber.org/zap"
)

// TherapistDirectory is the lookup surface the explicit-request path needs.
type TherapistDirectory interface {
	GetByEmail(email string) (*models.Therapist, error)
	GetByName(name string) (*models.Therapist, error)
	SearchByName(fragment string, limit int) ([]models.Therapist, error)
}

// ResolveExplicitRequest looks up a therapist the client asked for by name
// or email. Email wins when both are present. Name lookups try an exact
// match first and fall back to a substring match.
func ResolveExplicitRequest(dir TherapistDirectory, name, email string) *models.Therapist {
	logger := zap.L()

	if email = strings.TrimSpace(email); email != "" {
		t, err := dir.GetByEmail(strings.ToLower(email))
		if err != nil {
			logger.Warn("explicit request email lookup failed", zap.String("email", email), zap.Error(err))
			return nil
		}
		return t
	}

	if name = strings.TrimSpace(name); name == "" {
		return nil
	}

	if t, err := dir.GetByName(name); err == nil {
		return t
	}

	candidates, err := dir.SearchByName(strings.ToLower(name), 1)
	if err != nil || len(candidates) == 0 {
		logger.Warn("explicit request name lookup failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	return &candidates[0]
}

// EligibleForExplicitMatch verifies a requested therapist can actually take
// the client: the roster marks them open to new clients and lists the
// client's state.
func EligibleForExplicitMatch(t *models.Therapist, clientState string) bool {
	if strings.TrimSpace(t.AcceptingNewClients) == "" {
		return false
	}
	return t.ServesState(clientState)
}
