package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Pranjal095/Pahani-Project/internal/apperrors"
	"github.com/Pranjal095/Pahani-Project/internal/middleware"
	"github.com/Pranjal095/Pahani-Project/internal/models"
	"github.com/Pranjal095/Pahani-Project/internal/storage"
	"github.com/Pranjal095/Pahani-Project/internal/utils"
)

const minPasswordLength = 6

// IdentityService owns accounts and credentials: citizen phone+OTP,
// official email+password. Every successful login issues a bearer
// token the rest of the API trusts for actor identity and role.
type IdentityService struct {
	store storage.Store
	sms   SMSSender
}

func NewIdentityService(store storage.Store, sms SMSSender) *IdentityService {
	return &IdentityService{store: store, sms: sms}
}

// RegisterCitizen creates a citizen account after format and
// uniqueness checks.
func (s *IdentityService) RegisterCitizen(reg *models.CitizenRegistration) (*models.Citizen, error) {
	phone := models.NormalizePhone(reg.Phone)
	if !utils.AllDigits(phone, 10) {
		return nil, apperrors.ErrInvalidPhone
	}
	if !utils.AllDigits(reg.NationalID, 12) {
		return nil, apperrors.ErrInvalidNationalID
	}

	citizen := &models.Citizen{
		Name:       strings.TrimSpace(reg.Name),
		Phone:      phone,
		NationalID: reg.NationalID,
		BookNumber: strings.TrimSpace(reg.BookNumber),
	}
	if err := s.store.CreateCitizen(citizen); err != nil {
		return nil, err
	}
	return citizen, nil
}

// RegisterOfficial creates an official account with a bcrypt-hashed
// password.
func (s *IdentityService) RegisterOfficial(reg *models.OfficialRegistration) (*models.Official, error) {
	if len(reg.Password) < minPasswordLength {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	official := &models.Official{
		Name:         strings.TrimSpace(reg.Name),
		Email:        strings.ToLower(strings.TrimSpace(reg.Email)),
		PasswordHash: string(hash),
	}
	if err := s.store.CreateOfficial(official); err != nil {
		return nil, err
	}
	return official, nil
}

// RequestOTP issues a fresh login code for a registered citizen and
// dispatches it over SMS. Unregistered numbers are refused rather than
// silently accepted, so a typo'd number surfaces immediately.
func (s *IdentityService) RequestOTP(phone string) error {
	citizen, err := s.store.GetCitizenByPhone(phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUnknownPhone
		}
		return err
	}

	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return err
	}

	otp := &models.OTP{
		Phone:     citizen.Phone,
		Code:      code,
		ExpiresAt: time.Now().Add(models.OTPValidity),
	}
	if _, err := s.store.CreateOTP(otp); err != nil {
		return err
	}

	msg := "Your Pahani portal login code is " + code + ". It expires in 5 minutes."
	if err := s.sms.SendSMS(citizen.Phone, msg); err != nil {
		return &apperrors.DependencyFailure{Dependency: "sms", Err: err}
	}

	log.Printf("OTP issued for citizen %s", citizen.CitizenID)
	return nil
}

// VerifyOTPLogin consumes a live code and issues a citizen session
// token. A code verifies at most once; a second attempt with the same
// code fails even inside the validity window.
func (s *IdentityService) VerifyOTPLogin(phone, code string) (string, *models.Citizen, error) {
	citizen, err := s.store.GetCitizenByPhone(phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.ErrInvalidOTP
		}
		return "", nil, err
	}

	if err := s.store.ConsumeOTP(citizen.Phone, code); err != nil {
		return "", nil, err
	}

	token, err := middleware.GenerateToken(citizen.CitizenID, models.RoleCitizen)
	if err != nil {
		return "", nil, err
	}
	return token, citizen, nil
}

// LoginOfficial verifies email+password and issues an official session
// token.
func (s *IdentityService) LoginOfficial(email, password string) (string, *models.Official, error) {
	official, err := s.store.GetOfficialByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(official.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := middleware.GenerateToken(official.OfficialID, models.RoleOfficial)
	if err != nil {
		return "", nil, err
	}
	return token, official, nil
}
