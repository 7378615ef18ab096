package storage

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranjal095/Pahani-Project/internal/apperrors"
	"github.com/Pranjal095/Pahani-Project/internal/models"
)

func newTestRequest(t *testing.T, store Store, citizenID string) *models.PahaniRequest {
	t.Helper()
	req, err := store.CreateRequest(&models.PahaniRequest{
		CitizenID:    citizenID,
		District:     "Vikarabad",
		Mandal:       "Tandur",
		Village:      "Malkapur",
		SurveyNumber: "12/A",
		FromYear:     2010,
		ToYear:       2020,
	})
	require.NoError(t, err)
	return req
}

func TestCreateRequestDefaults(t *testing.T) {
	store := NewMemoryStore()

	req := newTestRequest(t, store, "CIT00001")

	assert.NotEmpty(t, req.RequestID)
	assert.Equal(t, models.StatusSubmitted, req.Status)
	assert.Empty(t, req.DocumentURL)
	assert.False(t, req.IsPaid)
	assert.False(t, req.SubmittedAt.IsZero())
}

func TestTransitionRequestConditional(t *testing.T) {
	store := NewMemoryStore()
	req := newTestRequest(t, store, "CIT00001")

	updated, err := store.TransitionRequest(req.RequestID, models.StatusSubmitted, models.StatusApproved, "OFF00001", nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)

	// Same expectation again: the state moved, so this must conflict
	_, err = store.TransitionRequest(req.RequestID, models.StatusSubmitted, models.StatusApproved, "OFF00002", nil)
	sc, ok := apperrors.IsStateConflict(err)
	require.True(t, ok)
	assert.Equal(t, models.StatusApproved, sc.Current)
}

func TestTransitionRequestNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.TransitionRequest("missing", models.StatusSubmitted, models.StatusApproved, "OFF00001", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConcurrentTransitionsSingleWinner(t *testing.T) {
	store := NewMemoryStore()
	req := newTestRequest(t, store, "CIT00001")

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.TransitionRequest(req.RequestID, models.StatusSubmitted, models.StatusApproved, "OFF00001", nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		if err == nil {
			wins++
		} else if _, ok := apperrors.IsStateConflict(err); ok {
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, callers-1, conflicts)
}

func TestTransitionAuditTrail(t *testing.T) {
	store := NewMemoryStore()
	req := newTestRequest(t, store, "CIT00001")

	_, err := store.TransitionRequest(req.RequestID, models.StatusSubmitted, models.StatusApproved, "OFF00001", nil)
	require.NoError(t, err)

	transitions, err := store.ListTransitions(req.RequestID)
	require.NoError(t, err)
	require.Len(t, transitions, 2)
	assert.Equal(t, models.StatusSubmitted, transitions[0].ToStatus)
	assert.Equal(t, models.StatusSubmitted, transitions[1].FromStatus)
	assert.Equal(t, models.StatusApproved, transitions[1].ToStatus)
	assert.Equal(t, "OFF00001", transitions[1].ActorID)
}

func TestListRequestsByCitizenOrdering(t *testing.T) {
	store := NewMemoryStore()

	first := newTestRequest(t, store, "CIT00001")
	time.Sleep(2 * time.Millisecond)
	second := newTestRequest(t, store, "CIT00001")
	newTestRequest(t, store, "CIT00002")

	requests, err := store.ListRequestsByCitizen("CIT00001")
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, second.RequestID, requests[0].RequestID)
	assert.Equal(t, first.RequestID, requests[1].RequestID)
}

func TestListRequestsFilters(t *testing.T) {
	store := NewMemoryStore()

	pending := newTestRequest(t, store, "CIT00001")
	approved := newTestRequest(t, store, "CIT00001")
	_, err := store.TransitionRequest(approved.RequestID, models.StatusSubmitted, models.StatusApproved, "OFF00001", nil)
	require.NoError(t, err)

	got, err := store.ListRequests(models.FilterPending)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.RequestID, got[0].RequestID)

	got, err = store.ListRequests(models.FilterProcessed)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, approved.RequestID, got[0].RequestID)

	got, err = store.ListRequests(models.FilterAll)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestConsumeOTPOnce(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateOTP(&models.OTP{
		Phone:     "9876543210",
		Code:      "123456",
		ExpiresAt: time.Now().Add(models.OTPValidity),
	})
	require.NoError(t, err)

	require.NoError(t, store.ConsumeOTP("9876543210", "123456"))
	assert.ErrorIs(t, store.ConsumeOTP("9876543210", "123456"), apperrors.ErrInvalidOTP)
}

func TestConsumeOTPExpired(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateOTP(&models.OTP{
		Phone:     "9876543210",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, store.ConsumeOTP("9876543210", "123456"), apperrors.ErrInvalidOTP)
}

func TestConsumeOTPConcurrent(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateOTP(&models.OTP{
		Phone:     "9876543210",
		Code:      "123456",
		ExpiresAt: time.Now().Add(models.OTPValidity),
	})
	require.NoError(t, err)

	const callers = 4
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.ConsumeOTP("9876543210", "123456")
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestCitizenDuplicates(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.CreateCitizen(&models.Citizen{
		Name: "Ravi", Phone: "9876543210", NationalID: "123456789012",
	}))

	err := store.CreateCitizen(&models.Citizen{
		Name: "Other", Phone: "9876543210", NationalID: "999999999999",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicatePhone)

	err = store.CreateCitizen(&models.Citizen{
		Name: "Other", Phone: "9000000000", NationalID: "123456789012",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateNationalID)
}
