package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"caselens-backend/models"
	"caselens-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocPathWriter struct {
	paths map[string]string
}

func (f *fakeDocPathWriter) SetComplaintDocPath(ctx context.Context, id string, path string) error {
	if f.paths == nil {
		f.paths = make(map[string]string)
	}
	f.paths[id] = path
	return nil
}

func TestArchiveAndFetchComplaint(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	c := testCase("X-123", nil)
	cases := newFakeCaseStore(c)
	paths := &fakeDocPathWriter{}
	svc := NewDocumentService(cases, paths, store)

	path, err := svc.ArchiveComplaint(context.Background(), "X-123", "complaint.pdf", strings.NewReader("%PDF-1.4 test"))
	require.NoError(t, err)
	assert.Equal(t, "complaints/X-123/complaint.pdf", path)
	assert.Equal(t, path, paths.paths["X-123"])

	// Fetch reads it back through the recorded path.
	c.ComplaintDocPath = &path
	reader, err := svc.FetchComplaint(context.Background(), "X-123")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))
}

func TestArchiveComplaintUnknownCase(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	svc := NewDocumentService(newFakeCaseStore(), &fakeDocPathWriter{}, store)

	_, err = svc.ArchiveComplaint(context.Background(), "missing", "complaint.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestFetchComplaintWithoutDocument(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	c := testCase("X-123", func(c *models.Case) { c.ComplaintDocPath = nil })
	svc := NewDocumentService(newFakeCaseStore(c), &fakeDocPathWriter{}, store)

	_, err = svc.FetchComplaint(context.Background(), "X-123")
	assert.ErrorIs(t, err, ErrNoComplaintDocument)
}
