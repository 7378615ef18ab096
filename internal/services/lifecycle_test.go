package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranjal095/Pahani-Project/internal/apperrors"
	"github.com/Pranjal095/Pahani-Project/internal/models"
	"github.com/Pranjal095/Pahani-Project/internal/storage"
)

func newLifecycle(t *testing.T) (*LifecycleService, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewLifecycleService(store, NewLocationCatalog()), store
}

func validSubmission() *models.RequestSubmission {
	return &models.RequestSubmission{
		District:     "Vikarabad",
		Mandal:       "Tandur",
		Village:      "Malkapur",
		SurveyNumber: "12/A",
		FromYear:     2010,
		ToYear:       2020,
	}
}

func TestSubmitInitialState(t *testing.T) {
	lifecycle, _ := newLifecycle(t)

	req, err := lifecycle.Submit("CIT00001", validSubmission())
	require.NoError(t, err)

	assert.Equal(t, models.StatusSubmitted, req.Status)
	assert.Empty(t, req.DocumentURL)
	assert.False(t, req.IsPaid)
	assert.Equal(t, "CIT00001", req.CitizenID)
}

func TestSubmitUnknownLocation(t *testing.T) {
	lifecycle, _ := newLifecycle(t)

	sub := validSubmission()
	sub.Village = "Atlantis"
	_, err := lifecycle.Submit("CIT00001", sub)
	assert.ErrorIs(t, err, apperrors.ErrUnknownLocation)

	sub = validSubmission()
	sub.Mandal = "Nowhere"
	_, err = lifecycle.Submit("CIT00001", sub)
	assert.ErrorIs(t, err, apperrors.ErrUnknownLocation)
}

func TestSubmitYearRange(t *testing.T) {
	lifecycle, _ := newLifecycle(t)

	tests := []struct {
		name     string
		from, to int
	}{
		{"from after to", 2020, 2010},
		{"before 1900", 1850, 1950},
		{"in the future", 2010, time.Now().Year() + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			sub.FromYear, sub.ToYear = tt.from, tt.to
			_, err := lifecycle.Submit("CIT00001", sub)
			assert.ErrorIs(t, err, apperrors.ErrInvalidYearRange)
		})
	}
}

func TestApproveRecordsActor(t *testing.T) {
	lifecycle, _ := newLifecycle(t)
	req, err := lifecycle.Submit("CIT00001", validSubmission())
	require.NoError(t, err)

	approved, err := lifecycle.Approve(req.RequestID, "OFF00001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Equal(t, "OFF00001", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
}

func TestNoSkipState(t *testing.T) {
	lifecycle, _ := newLifecycle(t)
	req, err := lifecycle.Submit("CIT00001", validSubmission())
	require.NoError(t, err)

	// Attaching to a submitted request must fail: approval cannot be skipped
	_, err = lifecycle.AttachDocument(req.RequestID, "OFF00001", "/documents/x.pdf")
	sc, ok := apperrors.IsStateConflict(err)
	require.True(t, ok)
	assert.Equal(t, models.StatusSubmitted, sc.Current)

	// Paying before the document exists must fail too
	_, err = lifecycle.MarkPaid(req.RequestID, "OFF00001")
	_, ok = apperrors.IsStateConflict(err)
	assert.True(t, ok)
}

func TestConcurrentApproveSingleWinner(t *testing.T) {
	lifecycle, _ := newLifecycle(t)
	req, err := lifecycle.Submit("CIT00001", validSubmission())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lifecycle.Approve(req.RequestID, "OFF00001")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		if err == nil {
			wins++
		} else if IsConflict(err) {
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}

func TestRejectTwice(t *testing.T) {
	lifecycle, _ := newLifecycle(t)
	req, err := lifecycle.Submit("CIT00001", validSubmission())
	require.NoError(t, err)

	rejected, err := lifecycle.Reject(req.RequestID, "OFF00001", "illegible survey number")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "illegible survey number", rejected.RejectReason)

	_, err = lifecycle.Reject(req.RequestID, "OFF00001", "again")
	_, ok := apperrors.IsStateConflict(err)
	assert.True(t, ok)
}

func TestRejectFromApproved(t *testing.T) {
	lifecycle, _ := newLifecycle(t)
	req, err := lifecycle.Submit("CIT00001", validSubmission())
	require.NoError(t, err)
	_, err = lifecycle.Approve(req.RequestID, "OFF00001")
	require.NoError(t, err)

	rejected, err := lifecycle.Reject(req.RequestID, "OFF00002", "records lost in fire")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
}

func TestMarkPaidOnlyAfterDocument(t *testing.T) {
	lifecycle, _ := newLifecycle(t)
	req, err := lifecycle.Submit("CIT00001", validSubmission())
	require.NoError(t, err)
	_, err = lifecycle.Approve(req.RequestID, "OFF00001")
	require.NoError(t, err)

	// Still no document
	_, err = lifecycle.MarkPaid(req.RequestID, "OFF00001")
	_, ok := apperrors.IsStateConflict(err)
	require.True(t, ok)

	_, err = lifecycle.AttachDocument(req.RequestID, "OFF00001", "/documents/doc.pdf")
	require.NoError(t, err)

	completed, err := lifecycle.MarkPaid(req.RequestID, "payment-gateway")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.True(t, completed.IsPaid)
}

func TestGetStatusAuthorization(t *testing.T) {
	lifecycle, _ := newLifecycle(t)
	req, err := lifecycle.Submit("CIT00001", validSubmission())
	require.NoError(t, err)

	// Owner may read
	status, err := lifecycle.GetStatus(req.RequestID, "CIT00001", models.RoleCitizen)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, status.Status)
	assert.NotEmpty(t, status.Message)

	// Another citizen may not
	_, err = lifecycle.GetStatus(req.RequestID, "CIT00002", models.RoleCitizen)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Any official may
	_, err = lifecycle.GetStatus(req.RequestID, "OFF00001", models.RoleOfficial)
	assert.NoError(t, err)

	// Unknown request
	_, err = lifecycle.GetStatus("missing", "CIT00001", models.RoleCitizen)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListForOfficialFilters(t *testing.T) {
	lifecycle, _ := newLifecycle(t)
	req, err := lifecycle.Submit("CIT00001", validSubmission())
	require.NoError(t, err)
	_, err = lifecycle.Submit("CIT00002", validSubmission())
	require.NoError(t, err)
	_, err = lifecycle.Approve(req.RequestID, "OFF00001")
	require.NoError(t, err)

	pending, err := lifecycle.ListForOfficial(models.FilterPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	processed, err := lifecycle.ListForOfficial(models.FilterProcessed)
	require.NoError(t, err)
	assert.Len(t, processed, 1)

	_, err = lifecycle.ListForOfficial("bogus")
	assert.Error(t, err)
}

func TestEndToEndLifecycle(t *testing.T) {
	store := storage.NewMemoryStore()
	lifecycle := NewLifecycleService(store, NewLocationCatalog())
	blobs := NewMemoryBlobStore()
	attachment := NewAttachmentService(store, blobs, lifecycle)

	req, err := lifecycle.Submit("CIT00001", validSubmission())
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, req.Status)

	_, err = lifecycle.Approve(req.RequestID, "OFF00001")
	require.NoError(t, err)

	pdf := []byte("%PDF-1.4 pahani record")
	attached, err := attachment.Attach(req.RequestID, "OFF00001", "application/pdf", pdf)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDocumentAttached, attached.Status)
	assert.NotEmpty(t, attached.DocumentURL)

	completed, err := lifecycle.MarkPaid(req.RequestID, "payment-gateway")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.True(t, completed.IsPaid)

	status, err := lifecycle.GetStatus(req.RequestID, "CIT00001", models.RoleCitizen)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, status.Status)
	assert.Contains(t, status.Message, status.DocumentURL)

	// Full audit trail: submit, approve, attach, complete
	history, err := lifecycle.History(req.RequestID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, models.StatusCompleted, history[3].ToStatus)
}
