package services

import (
	"github.com/Pranjal095/Pahani-Project/internal/apperrors"
	"github.com/Pranjal095/Pahani-Project/internal/models"
	"github.com/Pranjal095/Pahani-Project/internal/storage"
)

// The portal serves scanned Pahani records as PDFs; nothing else is
// accepted for attachment.
const documentContentType = "application/pdf"

// AttachmentService binds an uploaded document to an approved request:
// validate the artifact, store the bytes, then run the lifecycle
// transition. Storage is keyed by request id, so a retry after a lost
// race simply overwrites the blob.
type AttachmentService struct {
	store     storage.Store
	blobs     BlobStore
	lifecycle *LifecycleService
}

func NewAttachmentService(store storage.Store, blobs BlobStore, lifecycle *LifecycleService) *AttachmentService {
	return &AttachmentService{store: store, blobs: blobs, lifecycle: lifecycle}
}

// Attach validates and stores the document, then transitions the
// request to document_attached. If the state changed between store and
// transition, the caller gets ErrAttachmentFailed and the stored blob
// stays behind for the overwrite on retry.
func (s *AttachmentService) Attach(requestID, officialID, contentType string, data []byte) (*models.PahaniRequest, error) {
	if contentType != documentContentType || len(data) == 0 {
		return nil, apperrors.ErrUnsupportedFormat
	}

	// Early state check gives uploads against the wrong state a clean
	// answer without burning blob writes. The transition below is the
	// real guard.
	req, err := s.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusApproved {
		return nil, &apperrors.StateConflict{RequestID: requestID, Expected: models.StatusApproved, Current: req.Status}
	}

	locator, err := s.blobs.Put(requestID, data)
	if err != nil {
		return nil, &apperrors.DependencyFailure{Dependency: "blob store", Err: err}
	}

	updated, err := s.lifecycle.AttachDocument(requestID, officialID, locator)
	if err != nil {
		if _, ok := apperrors.IsStateConflict(err); ok {
			return nil, apperrors.ErrAttachmentFailed
		}
		return nil, err
	}
	return updated, nil
}
