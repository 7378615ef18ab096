package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Pranjal095/Pahani-Project/internal/apperrors"
	"github.com/Pranjal095/Pahani-Project/internal/models"
)

// DatabaseStore implements Store on PostgreSQL via GORM.
//
// Conditional writes (TransitionRequest, ConsumeOTP) take a row lock
// inside a transaction so concurrent callers serialize; the loser sees
// the already-updated row and gets the conflict error.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given GORM handle
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Citizen operations

func (d *DatabaseStore) CreateCitizen(citizen *models.Citizen) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		phone := models.NormalizePhone(citizen.Phone)
		if err := tx.Model(&models.Citizen{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrDuplicatePhone
		}
		if err := tx.Model(&models.Citizen{}).Where("national_id = ?", citizen.NationalID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrDuplicateNationalID
		}
		return tx.Create(citizen).Error
	})
}

func (d *DatabaseStore) GetCitizenByID(citizenID string) (*models.Citizen, error) {
	var citizen models.Citizen
	if err := d.db.Where("citizen_id = ?", citizenID).First(&citizen).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &citizen, nil
}

func (d *DatabaseStore) GetCitizenByPhone(phone string) (*models.Citizen, error) {
	var citizen models.Citizen
	if err := d.db.Where("phone = ?", models.NormalizePhone(phone)).First(&citizen).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &citizen, nil
}

func (d *DatabaseStore) GetCitizenByNationalID(nationalID string) (*models.Citizen, error) {
	var citizen models.Citizen
	if err := d.db.Where("national_id = ?", nationalID).First(&citizen).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &citizen, nil
}

// Official operations

func (d *DatabaseStore) CreateOfficial(official *models.Official) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Official{}).Where("email = ?", official.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrDuplicateEmail
		}
		return tx.Create(official).Error
	})
}

func (d *DatabaseStore) GetOfficialByID(officialID string) (*models.Official, error) {
	var official models.Official
	if err := d.db.Where("official_id = ?", officialID).First(&official).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &official, nil
}

func (d *DatabaseStore) GetOfficialByEmail(email string) (*models.Official, error) {
	var official models.Official
	if err := d.db.Where("email = ?", email).First(&official).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &official, nil
}

// OTP operations

func (d *DatabaseStore) CreateOTP(otp *models.OTP) (*models.OTP, error) {
	if err := d.db.Create(otp).Error; err != nil {
		return nil, err
	}
	return otp, nil
}

func (d *DatabaseStore) ConsumeOTP(phone, code string) error {
	now := time.Now()
	result := d.db.Model(&models.OTP{}).
		Where("phone = ? AND code = ? AND is_used = ? AND expires_at > ?",
			models.NormalizePhone(phone), code, false, now).
		Updates(map[string]interface{}{"is_used": true, "verified_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrInvalidOTP
	}
	return nil
}

func (d *DatabaseStore) DeleteExpiredOTPs() error {
	return d.db.Where("expires_at < ? OR is_used = ?", time.Now(), true).
		Delete(&models.OTP{}).Error
}

// Request operations

func (d *DatabaseStore) CreateRequest(req *models.PahaniRequest) (*models.PahaniRequest, error) {
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		return tx.Create(&models.RequestTransition{
			RequestID:  req.RequestID,
			FromStatus: "",
			ToStatus:   req.Status,
			ActorID:    req.CitizenID,
			At:         req.SubmittedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (d *DatabaseStore) GetRequest(requestID string) (*models.PahaniRequest, error) {
	var req models.PahaniRequest
	if err := d.db.Where("request_id = ?", requestID).First(&req).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &req, nil
}

func (d *DatabaseStore) TransitionRequest(requestID, expected, next, actorID string, apply func(*models.PahaniRequest)) (*models.PahaniRequest, error) {
	var updated *models.PahaniRequest
	err := d.db.Transaction(func(tx *gorm.DB) error {
		var req models.PahaniRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("request_id = ?", requestID).First(&req).Error; err != nil {
			return translateNotFound(err)
		}
		if req.Status != expected {
			return &apperrors.StateConflict{RequestID: requestID, Expected: expected, Current: req.Status}
		}

		now := time.Now()
		req.Status = next
		if apply != nil {
			apply(&req)
		}
		if err := tx.Save(&req).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.RequestTransition{
			RequestID:  requestID,
			FromStatus: expected,
			ToStatus:   next,
			ActorID:    actorID,
			At:         now,
		}).Error; err != nil {
			return err
		}
		updated = &req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (d *DatabaseStore) ListRequestsByCitizen(citizenID string) ([]*models.PahaniRequest, error) {
	var requests []*models.PahaniRequest
	err := d.db.Where("citizen_id = ?", citizenID).
		Order("submitted_at DESC").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (d *DatabaseStore) ListRequests(filter string) ([]*models.PahaniRequest, error) {
	query := d.db.Order("submitted_at DESC")
	switch filter {
	case "", models.FilterAll:
	case models.FilterPending:
		query = query.Where("status = ?", models.StatusSubmitted)
	case models.FilterProcessed:
		query = query.Where("status <> ?", models.StatusSubmitted)
	case models.FilterApproved:
		query = query.Where("status = ?", models.StatusApproved)
	case models.FilterCompleted:
		query = query.Where("status = ?", models.StatusCompleted)
	default:
		return []*models.PahaniRequest{}, nil
	}

	var requests []*models.PahaniRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (d *DatabaseStore) ListTransitions(requestID string) ([]*models.RequestTransition, error) {
	if _, err := d.GetRequest(requestID); err != nil {
		return nil, err
	}
	var transitions []*models.RequestTransition
	err := d.db.Where("request_id = ?", requestID).
		Order("at ASC").Find(&transitions).Error
	if err != nil {
		return nil, err
	}
	return transitions, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
