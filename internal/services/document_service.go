package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"github.com/jordan-levelle/CC-Server/internal/repository"
	"github.com/jordan-levelle/CC-Server/internal/storage"
)

type DocumentService struct {
	documents repository.DocumentRepository
	proposals repository.ProposalRepository
	store     storage.Store
	logger    *zap.SugaredLogger
}

func NewDocumentService(
	documents repository.DocumentRepository,
	proposals repository.ProposalRepository,
	store storage.Store,
	logger *zap.SugaredLogger,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		proposals: proposals,
		store:     store,
		logger:    logger,
	}
}

// Upload stores the bytes in the configured backend, records metadata, and
// links the document into the owning proposal.
func (s *DocumentService) Upload(ctx context.Context, proposalID primitive.ObjectID, uploader *models.User, fileName, mimeType string, data []byte) (*models.Document, error) {
	if _, err := s.proposals.FindByID(ctx, proposalID); err != nil {
		return nil, err
	}

	key, err := s.store.Put(ctx, fileName, mimeType, data)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		FileName:   fileName,
		StorageKey: key,
		MimeType:   mimeType,
		Size:       int64(len(data)),
		ProposalID: proposalID,
	}
	if uploader != nil {
		doc.UploadedBy = &uploader.ID
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		// metadata failed; do not leak the stored bytes
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.logger.Errorf("orphaned upload %s: %v", key, derr)
		}
		return nil, err
	}
	if err := s.proposals.PushDocument(ctx, proposalID, doc.ID); err != nil {
		s.logger.Errorf("link document %s to proposal: %v", doc.ID.Hex(), err)
	}
	return doc, nil
}

// Get returns the metadata and the stored bytes.
func (s *DocumentService) Get(ctx context.Context, id primitive.ObjectID) (*models.Document, []byte, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.store.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// Delete removes the record, unlinks it from the proposal, and deletes the
// stored bytes.
func (s *DocumentService) Delete(ctx context.Context, id primitive.ObjectID) error {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.proposals.PullDocument(ctx, doc.ProposalID, doc.ID); err != nil {
		s.logger.Errorf("unlink document %s: %v", doc.ID.Hex(), err)
	}
	if err := s.store.Delete(ctx, doc.StorageKey); err != nil && err != storage.ErrNotFound {
		s.logger.Errorf("delete stored bytes %s: %v", doc.StorageKey, err)
	}
	return nil
}
