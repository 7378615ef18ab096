package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus constants. A request moves strictly forward:
// submitted -> approved -> document_attached -> completed,
// with rejected as a terminal branch from submitted or approved.
const (
	StatusSubmitted        = "submitted"
	StatusApproved         = "approved"
	StatusDocumentAttached = "document_attached"
	StatusCompleted        = "completed"
	StatusRejected         = "rejected"
)

// PahaniRequest represents a citizen's request for an archival land record.
type PahaniRequest struct {
	gorm.Model

	RequestID string `json:"request_id" gorm:"uniqueIndex"`
	CitizenID string `json:"citizen_id" gorm:"index;not null"`

	District     string `json:"district" gorm:"not null"`
	Mandal       string `json:"mandal" gorm:"not null"`
	Village      string `json:"village" gorm:"not null"`
	SurveyNumber string `json:"survey_number" gorm:"not null"`
	FromYear     int    `json:"from_year"`
	ToYear       int    `json:"to_year"`

	Status string `json:"status" gorm:"index;not null;default:'submitted'"`

	// Set once a document is attached; empty in earlier states.
	DocumentURL string `json:"document_url,omitempty"`
	IsPaid      bool   `json:"is_paid" gorm:"default:false"`

	RejectReason string `json:"reject_reason,omitempty"`
	ApprovedBy   string `json:"approved_by,omitempty"`
	AttachedBy   string `json:"attached_by,omitempty"`

	SubmittedAt time.Time  `json:"submitted_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	AttachedAt  *time.Time `json:"attached_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`
}

// BeforeCreate hook to auto-generate the request id and stamp submission time
func (r *PahaniRequest) BeforeCreate(tx *gorm.DB) error {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusSubmitted
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	return nil
}

// Terminal reports whether no further transition is possible from status.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusRejected
}

// Processed mirrors the admin dashboard filter: anything past submission.
func (r *PahaniRequest) Processed() bool {
	return r.Status != StatusSubmitted
}

// RequestTransition is one row of the lifecycle audit trail.
type RequestTransition struct {
	gorm.Model
	RequestID  string    `json:"request_id" gorm:"index;not null"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status" gorm:"not null"`
	ActorID    string    `json:"actor_id"`
	At         time.Time `json:"at"`
}

// RequestSubmission is the payload for a new Pahani request
type RequestSubmission struct {
	District     string `json:"district" validate:"required"`
	Mandal       string `json:"mandal" validate:"required"`
	Village      string `json:"village" validate:"required"`
	SurveyNumber string `json:"survey_number" validate:"required"`
	FromYear     int    `json:"from_year" validate:"required"`
	ToYear       int    `json:"to_year" validate:"required"`
}

// RequestFilter values accepted by the admin listing endpoint.
const (
	FilterAll       = "all"
	FilterPending   = "pending"
	FilterProcessed = "processed"
	FilterApproved  = "approved"
	FilterCompleted = "completed"
)
