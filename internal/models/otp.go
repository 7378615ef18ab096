package models

import (
	"time"

	"gorm.io/gorm"
)

// OTPValidity is how long an issued code stays verifiable.
const OTPValidity = 5 * time.Minute

type OTP struct {
	gorm.Model
	Phone      string    `gorm:"not null;index"`
	Code       string    `gorm:"not null"` // 6 digits
	ExpiresAt  time.Time `gorm:"not null"`
	VerifiedAt *time.Time
	Attempts   int  `gorm:"default:0"`
	IsUsed     bool `gorm:"default:false"`
}

// Live reports whether the code can still be consumed.
func (o *OTP) Live(now time.Time) bool {
	return !o.IsUsed && now.Before(o.ExpiresAt)
}
