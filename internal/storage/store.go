package storage

import (
	"sync"

	"github.com/Pranjal095/Pahani-Project/internal/models"
)

var (
	storeInstance Store
	storeOnce     sync.Once
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations.
//
// TransitionRequest and ConsumeOTP are the two conditional writes the
// lifecycle depends on: both apply at most once, and the loser of a
// concurrent race observes the post-transition state as an error.
type Store interface {
	// Citizen operations
	CreateCitizen(citizen *models.Citizen) error
	GetCitizenByID(citizenID string) (*models.Citizen, error)
	GetCitizenByPhone(phone string) (*models.Citizen, error)
	GetCitizenByNationalID(nationalID string) (*models.Citizen, error)

	// Official operations
	CreateOfficial(official *models.Official) error
	GetOfficialByID(officialID string) (*models.Official, error)
	GetOfficialByEmail(email string) (*models.Official, error)

	// OTP operations
	CreateOTP(otp *models.OTP) (*models.OTP, error)
	// ConsumeOTP atomically marks the matching live code as used.
	ConsumeOTP(phone, code string) error
	DeleteExpiredOTPs() error

	// Request operations
	CreateRequest(req *models.PahaniRequest) (*models.PahaniRequest, error)
	GetRequest(requestID string) (*models.PahaniRequest, error)
	// TransitionRequest moves a request from expected to next, applies
	// extra field changes via apply, and appends an audit row. If the
	// stored status is not expected it returns *apperrors.StateConflict.
	TransitionRequest(requestID, expected, next, actorID string, apply func(*models.PahaniRequest)) (*models.PahaniRequest, error)
	ListRequestsByCitizen(citizenID string) ([]*models.PahaniRequest, error)
	ListRequests(filter string) ([]*models.PahaniRequest, error)
	ListTransitions(requestID string) ([]*models.RequestTransition, error)
}
