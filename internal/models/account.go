package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role values carried in session tokens
const (
	RoleCitizen  = "citizen"
	RoleOfficial = "official"
)

// Citizen is a portal user who requests Pahani documents.
// Citizens authenticate with phone + OTP only and never hold a password.
type Citizen struct {
	gorm.Model

	CitizenID  string `json:"citizen_id" gorm:"uniqueIndex"`
	Name       string `json:"name"`
	Phone      string `json:"phone" gorm:"uniqueIndex"`       // 10-digit mobile number
	NationalID string `json:"national_id" gorm:"uniqueIndex"` // 12-digit identity number
	BookNumber string `json:"book_number"`                    // land record (pattadar) book number
}

// BeforeCreate hook to auto-generate CitizenID and normalize the phone number
func (c *Citizen) BeforeCreate(tx *gorm.DB) error {
	if c.CitizenID == "" {
		c.CitizenID = fmt.Sprintf("CIT%d%03d", time.Now().Unix(), time.Now().Nanosecond()%1000)
	}

	// Strip a leading country code so the stored form is always 10 digits
	c.Phone = NormalizePhone(c.Phone)

	return nil
}

// Official is a government employee who processes Pahani requests.
// Officials authenticate with email + password and never hold an OTP credential.
type Official struct {
	gorm.Model

	OfficialID   string `json:"official_id" gorm:"uniqueIndex"`
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
}

func (o *Official) BeforeCreate(tx *gorm.DB) error {
	if o.OfficialID == "" {
		o.OfficialID = fmt.Sprintf("OFF%d%03d", time.Now().Unix(), time.Now().Nanosecond()%1000)
	}

	o.Email = strings.ToLower(strings.TrimSpace(o.Email))

	return nil
}

// NormalizePhone reduces a phone number to its bare 10-digit form.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.TrimPrefix(phone, "+91")
	phone = strings.TrimPrefix(phone, "+")
	if len(phone) == 12 && strings.HasPrefix(phone, "91") {
		phone = phone[2:]
	}
	return phone
}

// CitizenRegistration is the payload for new citizen registration
type CitizenRegistration struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	NationalID string `json:"national_id" validate:"required"`
	BookNumber string `json:"book_number"`
}

// OfficialRegistration is the payload for new official registration
type OfficialRegistration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
