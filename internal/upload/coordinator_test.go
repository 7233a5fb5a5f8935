package upload

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas/teaser-agent/internal/api"
)

// fakeUploader records the last request and returns canned results.
type fakeUploader struct {
	files     []api.File
	sessionID string
	results   []api.UploadedFile
	err       error
	progress  []int
}

func (f *fakeUploader) UploadFiles(_ context.Context, files []api.File, sessionID string, onProgress api.ProgressFunc) ([]api.UploadedFile, error) {
	f.files = files
	f.sessionID = sessionID
	if onProgress != nil {
		for _, tick := range f.progress {
			onProgress(tick, int64(tick), 100)
		}
	}
	return f.results, f.err
}

func pdfCandidate(name string, size int64) Candidate {
	return Candidate{Name: name, Size: size, Data: []byte("%PDF-1.4")}
}

func TestCoordinator_AddFilesFiltersByType(t *testing.T) {
	c := New(&fakeUploader{})

	rejections := c.AddFiles([]Candidate{
		pdfCandidate("deck.pdf", 100),
		{Name: "notes.txt", Size: 50, Data: []byte("notes")},
		{Name: "movie.mp4", Size: 900, Data: []byte("x")},
		{Name: "archive.zip", Size: 200, Data: []byte("x")},
	})

	require.Len(t, rejections, 2)
	assert.Equal(t, "movie.mp4", rejections[0].Name)
	assert.Contains(t, rejections[0].Reason, "unsupported file type")
	assert.Equal(t, "archive.zip", rejections[1].Name)

	files := c.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "deck.pdf", files[0].Name)
	assert.Equal(t, "application/pdf", files[0].ContentType)
	assert.Equal(t, "notes.txt", files[1].Name)
}

func TestCoordinator_AddFilesAcceptsByContentType(t *testing.T) {
	c := New(&fakeUploader{})

	// No recognizable extension, but the declared type is on the allow-list.
	rejections := c.AddFiles([]Candidate{
		{Name: "export", Size: 10, ContentType: "application/pdf", Data: []byte("%PDF")},
	})

	assert.Empty(t, rejections)
	require.Len(t, c.Files(), 1)
}

func TestCoordinator_AddFilesDeduplicates(t *testing.T) {
	c := New(&fakeUploader{})

	c.AddFiles([]Candidate{pdfCandidate("deck.pdf", 100)})
	rejections := c.AddFiles([]Candidate{
		pdfCandidate("deck.pdf", 100), // same name and size, dropped silently
		pdfCandidate("deck.pdf", 200), // same name, different size, kept
	})

	assert.Empty(t, rejections)
	require.Len(t, c.Files(), 2)
}

func TestCoordinator_RemoveFile(t *testing.T) {
	c := New(&fakeUploader{})
	c.AddFiles([]Candidate{
		pdfCandidate("a.pdf", 1),
		pdfCandidate("b.pdf", 2),
		pdfCandidate("c.pdf", 3),
	})

	c.RemoveFile(1)
	files := c.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "a.pdf", files[0].Name)
	assert.Equal(t, "c.pdf", files[1].Name)

	// Out-of-range indices are no-ops.
	c.RemoveFile(-1)
	c.RemoveFile(5)
	assert.Len(t, c.Files(), 2)
}

func TestCoordinator_UploadEmptyBatch(t *testing.T) {
	c := New(&fakeUploader{})

	_, err := c.Upload(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestCoordinator_UploadSuccessClearsQueue(t *testing.T) {
	uploader := &fakeUploader{
		results: []api.UploadedFile{
			{Filename: "deck.pdf", Size: 100, ContentType: "application/pdf"},
		},
	}
	c := New(uploader)
	c.AddFiles([]Candidate{pdfCandidate("deck.pdf", 100)})

	results, err := c.Upload(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "deck.pdf", results[0].Filename)

	assert.Equal(t, "sess-1", uploader.sessionID)
	require.Len(t, uploader.files, 1)
	assert.Equal(t, []byte("%PDF-1.4"), uploader.files[0].Data)

	assert.Empty(t, c.Files())
	assert.Equal(t, 100, c.Progress().Percent)
}

func TestCoordinator_UploadFailureKeepsQueue(t *testing.T) {
	uploader := &fakeUploader{err: &api.Error{Kind: api.KindRejected, Op: "upload", Message: "bad content"}}
	c := New(uploader)
	c.AddFiles([]Candidate{pdfCandidate("deck.pdf", 100)})

	_, err := c.Upload(context.Background(), "sess-1")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindRejected))

	// The batch survives for retry without re-selecting files.
	require.Len(t, c.Files(), 1)

	uploader.err = nil
	uploader.results = []api.UploadedFile{{Filename: "deck.pdf", Size: 100}}
	_, err = c.Upload(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, c.Files())
}

func TestCoordinator_ProgressIsMonotonic(t *testing.T) {
	// The transport replays from zero on an internal retry; the coordinator
	// must never report progress going backwards.
	uploader := &fakeUploader{
		progress: []int{10, 40, 70, 0, 20, 55, 90},
		results:  []api.UploadedFile{{Filename: "deck.pdf", Size: 100}},
	}
	c := New(uploader)
	c.AddFiles([]Candidate{pdfCandidate("deck.pdf", 100)})

	var observed []int
	c.SetProgressListener(func(p Progress) { observed = append(observed, p.Percent) })

	_, err := c.Upload(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, []int{10, 40, 70, 90}, observed)
	assert.Equal(t, 100, c.Progress().Percent)
}

func TestCoordinator_ClosedDiscardsResult(t *testing.T) {
	c := New(&fakeUploader{})
	c.AddFiles([]Candidate{pdfCandidate("deck.pdf", 100)})
	c.Close()

	_, err := c.Upload(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCoordinator_UploadMissingFileOnDisk(t *testing.T) {
	c := New(&fakeUploader{})
	c.AddFiles([]Candidate{{Name: "gone.pdf", Size: 1, Path: "/nonexistent/gone.pdf"}})

	_, err := c.Upload(context.Background(), "sess-1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyBatch))
	assert.Contains(t, err.Error(), "gone.pdf")
}
