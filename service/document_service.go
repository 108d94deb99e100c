package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"caselens-backend/storage"
)

var ErrNoComplaintDocument = errors.New("no complaint document archived for case")

// DocPathWriter records a case's archived document location.
type DocPathWriter interface {
	SetComplaintDocPath(ctx context.Context, id string, path string) error
}

// DocumentService archives and serves the raw pleadings documents attached
// to cases.
type DocumentService struct {
	cases CaseStore
	paths DocPathWriter
	store storage.Storage
}

// NewDocumentService creates a new document service
func NewDocumentService(cases CaseStore, paths DocPathWriter, store storage.Storage) *DocumentService {
	return &DocumentService{cases: cases, paths: paths, store: store}
}

// ArchiveComplaint stores a pleadings document for a case and records its
// location on the case row. Re-archiving replaces the previous document.
func (s *DocumentService) ArchiveComplaint(ctx context.Context, caseID, filename string, data io.Reader) (string, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return "", ErrCaseNotFound
	}

	path, err := s.store.Upload(ctx, c.ID, filepath.Base(filename), data)
	if err != nil {
		return "", err
	}

	if err := s.paths.SetComplaintDocPath(ctx, c.ID, path); err != nil {
		// The blob is orphaned but harmless; the next archive overwrites it.
		return "", err
	}
	return path, nil
}

// FetchComplaint streams a case's archived pleadings document.
func (s *DocumentService) FetchComplaint(ctx context.Context, caseID string) (io.ReadCloser, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, ErrCaseNotFound
	}
	if c.ComplaintDocPath == nil {
		return nil, ErrNoComplaintDocument
	}
	return s.store.Download(ctx, *c.ComplaintDocPath)
}
