package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Pranjal095/Pahani-Project/internal/apperrors"
	"github.com/Pranjal095/Pahani-Project/internal/models"
	"github.com/Pranjal095/Pahani-Project/internal/storage"
)

const minRequestYear = 1900

// LifecycleService enforces the request state machine:
//
//	submitted -> approved -> document_attached -> completed
//	submitted | approved  -> rejected
//
// Every transition is a conditional write through the store, so two
// officials racing on the same request resolve to exactly one winner;
// the loser gets a StateConflict carrying the current status.
type LifecycleService struct {
	store   storage.Store
	catalog *LocationCatalog
}

func NewLifecycleService(store storage.Store, catalog *LocationCatalog) *LifecycleService {
	return &LifecycleService{store: store, catalog: catalog}
}

// Submit validates and persists a new request in the submitted state.
func (s *LifecycleService) Submit(citizenID string, sub *models.RequestSubmission) (*models.PahaniRequest, error) {
	if !s.catalog.Resolve(sub.District, sub.Mandal, sub.Village) {
		return nil, apperrors.ErrUnknownLocation
	}
	currentYear := time.Now().Year()
	if sub.FromYear < minRequestYear || sub.ToYear > currentYear || sub.FromYear > sub.ToYear {
		return nil, apperrors.ErrInvalidYearRange
	}

	req := &models.PahaniRequest{
		CitizenID:    citizenID,
		District:     sub.District,
		Mandal:       sub.Mandal,
		Village:      sub.Village,
		SurveyNumber: strings.TrimSpace(sub.SurveyNumber),
		FromYear:     sub.FromYear,
		ToYear:       sub.ToYear,
		Status:       models.StatusSubmitted,
		SubmittedAt:  time.Now(),
	}
	return s.store.CreateRequest(req)
}

// Approve moves a submitted request to approved, recording who
// approved it and when.
func (s *LifecycleService) Approve(requestID, officialID string) (*models.PahaniRequest, error) {
	return s.store.TransitionRequest(requestID, models.StatusSubmitted, models.StatusApproved, officialID,
		func(r *models.PahaniRequest) {
			now := time.Now()
			r.ApprovedBy = officialID
			r.ApprovedAt = &now
		})
}

// AttachDocument moves an approved request to document_attached. The
// attachment service calls this after the blob is safely stored.
func (s *LifecycleService) AttachDocument(requestID, officialID, locator string) (*models.PahaniRequest, error) {
	return s.store.TransitionRequest(requestID, models.StatusApproved, models.StatusDocumentAttached, officialID,
		func(r *models.PahaniRequest) {
			now := time.Now()
			r.DocumentURL = locator
			r.AttachedBy = officialID
			r.AttachedAt = &now
		})
}

// MarkPaid closes a document_attached request. Triggered by the
// payment webhook or by an official.
func (s *LifecycleService) MarkPaid(requestID, actorID string) (*models.PahaniRequest, error) {
	return s.store.TransitionRequest(requestID, models.StatusDocumentAttached, models.StatusCompleted, actorID,
		func(r *models.PahaniRequest) {
			now := time.Now()
			r.IsPaid = true
			r.CompletedAt = &now
		})
}

// Reject terminates a request from submitted or approved. Rejecting an
// already-terminal request returns a StateConflict, never crashes.
func (s *LifecycleService) Reject(requestID, officialID, reason string) (*models.PahaniRequest, error) {
	current, err := s.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	from := current.Status
	if models.Terminal(from) || from == models.StatusDocumentAttached {
		return nil, &apperrors.StateConflict{RequestID: requestID, Expected: models.StatusSubmitted, Current: from}
	}

	// The read above is only advisory; the conditional write below is
	// what guarantees at-most-one effective rejection.
	return s.store.TransitionRequest(requestID, from, models.StatusRejected, officialID,
		func(r *models.PahaniRequest) {
			now := time.Now()
			r.RejectReason = reason
			r.RejectedAt = &now
		})
}

// ListForCitizen returns the citizen's own requests, newest first.
func (s *LifecycleService) ListForCitizen(citizenID string) ([]*models.PahaniRequest, error) {
	return s.store.ListRequestsByCitizen(citizenID)
}

// ListForOfficial returns requests matching an admin dashboard filter.
func (s *LifecycleService) ListForOfficial(filter string) ([]*models.PahaniRequest, error) {
	switch filter {
	case "", models.FilterAll, models.FilterPending, models.FilterProcessed,
		models.FilterApproved, models.FilterCompleted:
		return s.store.ListRequests(filter)
	default:
		return nil, fmt.Errorf("unknown filter %q", filter)
	}
}

// RequestStatus is what a citizen polling their request sees.
type RequestStatus struct {
	RequestID   string `json:"request_id"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	DocumentURL string `json:"document_url,omitempty"`
	IsPaid      bool   `json:"is_paid"`
}

// GetStatus returns the current state plus a human-readable message.
// Only the owning citizen or an official may read it.
func (s *LifecycleService) GetStatus(requestID, callerID, callerRole string) (*RequestStatus, error) {
	req, err := s.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if callerRole != models.RoleOfficial && req.CitizenID != callerID {
		return nil, apperrors.ErrForbidden
	}

	return &RequestStatus{
		RequestID:   req.RequestID,
		Status:      req.Status,
		Message:     statusMessage(req),
		DocumentURL: req.DocumentURL,
		IsPaid:      req.IsPaid,
	}, nil
}

// History returns the audit trail of a request.
func (s *LifecycleService) History(requestID string) ([]*models.RequestTransition, error) {
	return s.store.ListTransitions(requestID)
}

func statusMessage(req *models.PahaniRequest) string {
	switch req.Status {
	case models.StatusSubmitted:
		return "Your request is pending review by the revenue office."
	case models.StatusApproved:
		return "Your request has been approved. The document is being prepared."
	case models.StatusDocumentAttached:
		return "Your document is ready. Complete the payment to download it."
	case models.StatusCompleted:
		return "Your request is complete. Download your document at " + req.DocumentURL
	case models.StatusRejected:
		if req.RejectReason != "" {
			return "Your request was rejected: " + req.RejectReason
		}
		return "Your request was rejected."
	default:
		return "Unknown status."
	}
}

// IsConflict reports whether err came from losing a transition race.
func IsConflict(err error) bool {
	_, ok := apperrors.IsStateConflict(err)
	return ok
}
