package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Pranjal095/Pahani-Project/internal/apperrors"
	"github.com/Pranjal095/Pahani-Project/internal/models"
)

// MemoryStore holds all data in memory (tests and local development)
type MemoryStore struct {
	citizens  map[string]*models.Citizen // keyed by CitizenID
	officials map[string]*models.Official
	otps      []*models.OTP
	requests  map[string]*models.PahaniRequest
	history   map[string][]*models.RequestTransition

	// Mutexes for thread safety
	accountMu sync.RWMutex
	otpMu     sync.Mutex
	requestMu sync.RWMutex

	// Counters for ID generation
	citizenCounter  int
	officialCounter int
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		citizens:  make(map[string]*models.Citizen),
		officials: make(map[string]*models.Official),
		requests:  make(map[string]*models.PahaniRequest),
		history:   make(map[string][]*models.RequestTransition),
	}
}

// Citizen operations

func (m *MemoryStore) CreateCitizen(citizen *models.Citizen) error {
	m.accountMu.Lock()
	defer m.accountMu.Unlock()

	citizen.Phone = models.NormalizePhone(citizen.Phone)
	for _, c := range m.citizens {
		if c.Phone == citizen.Phone {
			return apperrors.ErrDuplicatePhone
		}
		if c.NationalID == citizen.NationalID {
			return apperrors.ErrDuplicateNationalID
		}
	}

	m.citizenCounter++
	if citizen.CitizenID == "" {
		citizen.CitizenID = fmt.Sprintf("CIT%05d", m.citizenCounter)
	}
	citizen.CreatedAt = time.Now()

	m.citizens[citizen.CitizenID] = citizen
	return nil
}

func (m *MemoryStore) GetCitizenByID(citizenID string) (*models.Citizen, error) {
	m.accountMu.RLock()
	defer m.accountMu.RUnlock()

	citizen, exists := m.citizens[citizenID]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	return citizen, nil
}

func (m *MemoryStore) GetCitizenByPhone(phone string) (*models.Citizen, error) {
	m.accountMu.RLock()
	defer m.accountMu.RUnlock()

	phone = models.NormalizePhone(phone)
	for _, c := range m.citizens {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *MemoryStore) GetCitizenByNationalID(nationalID string) (*models.Citizen, error) {
	m.accountMu.RLock()
	defer m.accountMu.RUnlock()

	for _, c := range m.citizens {
		if c.NationalID == nationalID {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// Official operations

func (m *MemoryStore) CreateOfficial(official *models.Official) error {
	m.accountMu.Lock()
	defer m.accountMu.Unlock()

	for _, o := range m.officials {
		if o.Email == official.Email {
			return apperrors.ErrDuplicateEmail
		}
	}

	m.officialCounter++
	if official.OfficialID == "" {
		official.OfficialID = fmt.Sprintf("OFF%05d", m.officialCounter)
	}
	official.CreatedAt = time.Now()

	m.officials[official.OfficialID] = official
	return nil
}

func (m *MemoryStore) GetOfficialByID(officialID string) (*models.Official, error) {
	m.accountMu.RLock()
	defer m.accountMu.RUnlock()

	official, exists := m.officials[officialID]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	return official, nil
}

func (m *MemoryStore) GetOfficialByEmail(email string) (*models.Official, error) {
	m.accountMu.RLock()
	defer m.accountMu.RUnlock()

	for _, o := range m.officials {
		if o.Email == email {
			return o, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// OTP operations

func (m *MemoryStore) CreateOTP(otp *models.OTP) (*models.OTP, error) {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	otp.CreatedAt = time.Now()
	m.otps = append(m.otps, otp)
	return otp, nil
}

func (m *MemoryStore) ConsumeOTP(phone, code string) error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	now := time.Now()
	phone = models.NormalizePhone(phone)
	// Newest first so a resent code wins over a stale one
	for i := len(m.otps) - 1; i >= 0; i-- {
		otp := m.otps[i]
		if otp.Phone != phone || otp.Code != code {
			continue
		}
		if !otp.Live(now) {
			return apperrors.ErrInvalidOTP
		}
		otp.IsUsed = true
		otp.VerifiedAt = &now
		return nil
	}
	return apperrors.ErrInvalidOTP
}

func (m *MemoryStore) DeleteExpiredOTPs() error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	now := time.Now()
	kept := m.otps[:0]
	for _, otp := range m.otps {
		if now.Before(otp.ExpiresAt) && !otp.IsUsed {
			kept = append(kept, otp)
		}
	}
	m.otps = kept
	return nil
}

// Request operations

func (m *MemoryStore) CreateRequest(req *models.PahaniRequest) (*models.PahaniRequest, error) {
	m.requestMu.Lock()
	defer m.requestMu.Unlock()

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = models.StatusSubmitted
	}
	now := time.Now()
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = now
	}
	req.CreatedAt = now
	req.UpdatedAt = now

	m.requests[req.RequestID] = req
	m.history[req.RequestID] = append(m.history[req.RequestID], &models.RequestTransition{
		RequestID:  req.RequestID,
		FromStatus: "",
		ToStatus:   req.Status,
		ActorID:    req.CitizenID,
		At:         now,
	})
	return req, nil
}

func (m *MemoryStore) GetRequest(requestID string) (*models.PahaniRequest, error) {
	m.requestMu.RLock()
	defer m.requestMu.RUnlock()

	req, exists := m.requests[requestID]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (m *MemoryStore) TransitionRequest(requestID, expected, next, actorID string, apply func(*models.PahaniRequest)) (*models.PahaniRequest, error) {
	m.requestMu.Lock()
	defer m.requestMu.Unlock()

	req, exists := m.requests[requestID]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	if req.Status != expected {
		return nil, &apperrors.StateConflict{RequestID: requestID, Expected: expected, Current: req.Status}
	}

	now := time.Now()
	req.Status = next
	if apply != nil {
		apply(req)
	}
	req.UpdatedAt = now

	m.history[requestID] = append(m.history[requestID], &models.RequestTransition{
		RequestID:  requestID,
		FromStatus: expected,
		ToStatus:   next,
		ActorID:    actorID,
		At:         now,
	})

	copied := *req
	return &copied, nil
}

func (m *MemoryStore) ListRequestsByCitizen(citizenID string) ([]*models.PahaniRequest, error) {
	m.requestMu.RLock()
	defer m.requestMu.RUnlock()

	var results []*models.PahaniRequest
	for _, req := range m.requests {
		if req.CitizenID == citizenID {
			copied := *req
			results = append(results, &copied)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].SubmittedAt.After(results[j].SubmittedAt)
	})
	return results, nil
}

func (m *MemoryStore) ListRequests(filter string) ([]*models.PahaniRequest, error) {
	m.requestMu.RLock()
	defer m.requestMu.RUnlock()

	var results []*models.PahaniRequest
	for _, req := range m.requests {
		if !matchesFilter(req, filter) {
			continue
		}
		copied := *req
		results = append(results, &copied)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].SubmittedAt.After(results[j].SubmittedAt)
	})
	return results, nil
}

func matchesFilter(req *models.PahaniRequest, filter string) bool {
	switch filter {
	case "", models.FilterAll:
		return true
	case models.FilterPending:
		return req.Status == models.StatusSubmitted
	case models.FilterProcessed:
		return req.Processed()
	case models.FilterApproved:
		return req.Status == models.StatusApproved
	case models.FilterCompleted:
		return req.Status == models.StatusCompleted
	default:
		return false
	}
}

func (m *MemoryStore) ListTransitions(requestID string) ([]*models.RequestTransition, error) {
	m.requestMu.RLock()
	defer m.requestMu.RUnlock()

	if _, exists := m.requests[requestID]; !exists {
		return nil, apperrors.ErrNotFound
	}
	transitions := make([]*models.RequestTransition, len(m.history[requestID]))
	copy(transitions, m.history[requestID])
	return transitions, nil
}
