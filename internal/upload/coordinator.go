// Package upload manages the batch of supporting documents queued for
// upload: validation against the allowed file types, deduplication, and a
// progress-reporting upload operation that leaves the queue intact on
// failure so the user can retry without re-selecting files.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/thomas/teaser-agent/internal/api"
)

// ErrEmptyBatch is returned by Upload when no files are queued.
var ErrEmptyBatch = errors.New("no files queued for upload")

// ErrClosed is returned when an upload completes after the coordinator has
// been torn down; its result has been discarded.
var ErrClosed = errors.New("upload coordinator is closed")

// allowedExtensions maps accepted file extensions to their content types.
var allowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".txt":  "text/plain",
}

// Candidate is a file proposed for the batch. Data may be set directly;
// otherwise the file is read from Path at upload time.
type Candidate struct {
	Name        string
	Size        int64
	ContentType string
	Path        string
	Data        []byte
}

// Entry is an accepted candidate in the queue.
type Entry struct {
	Name        string
	Size        int64
	ContentType string
	Path        string
	Data        []byte
}

// Rejection reports a candidate excluded by the type filter.
type Rejection struct {
	Name   string
	Reason string
}

// Progress is the state of the in-flight upload, monotonically non-decreasing
// from 0 to 100 for the duration of one Upload call.
type Progress struct {
	Percent int
	Loaded  int64
	Total   int64
}

// Uploader is the slice of the API client the coordinator depends on.
type Uploader interface {
	UploadFiles(ctx context.Context, files []api.File, sessionID string, onProgress api.ProgressFunc) ([]api.UploadedFile, error)
}

// Coordinator holds the upload batch and drives upload operations.
type Coordinator struct {
	uploader Uploader

	mu       sync.Mutex
	entries  []Entry
	progress Progress
	listener func(Progress)
	closed   bool
}

// New creates a Coordinator that delegates uploads to the given uploader.
func New(uploader Uploader) *Coordinator {
	return &Coordinator{uploader: uploader}
}

// AddFiles filters candidates against the allowed types and appends the
// valid ones to the queue. Invalid candidates are reported as rejections but
// do not block acceptance of the rest; a candidate matching an already
// queued (name, size) pair is silently dropped.
func (c *Coordinator) AddFiles(candidates []Candidate) []Rejection {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rejections []Rejection
	for _, cand := range candidates {
		if reason, ok := acceptable(cand); !ok {
			rejections = append(rejections, Rejection{Name: cand.Name, Reason: reason})
			continue
		}
		if c.queued(cand.Name, cand.Size) {
			continue
		}
		contentType := cand.ContentType
		if contentType == "" {
			contentType = allowedExtensions[strings.ToLower(filepath.Ext(cand.Name))]
		}
		c.entries = append(c.entries, Entry{
			Name:        cand.Name,
			Size:        cand.Size,
			ContentType: contentType,
			Path:        cand.Path,
			Data:        cand.Data,
		})
	}
	return rejections
}

// RemoveFile removes the entry at the given position. An out-of-range index
// is a no-op.
func (c *Coordinator) RemoveFile(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.entries) {
		return
	}
	c.entries = append(c.entries[:index], c.entries[index+1:]...)
}

// Files returns a copy of the current queue.
func (c *Coordinator) Files() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// SetProgressListener registers a callback invoked on every accepted
// progress tick, for live display.
func (c *Coordinator) SetProgressListener(fn func(Progress)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = fn
}

// Progress returns the progress of the in-flight upload.
func (c *Coordinator) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// Close tears the coordinator down. An upload still in flight is not aborted
// server-side, but its result is discarded.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Upload sends the queued files as one batch. On success the queue is
// cleared and the server's per-file results returned; on failure the queue
// is left intact for retry.
func (c *Coordinator) Upload(ctx context.Context, sessionID string) ([]api.UploadedFile, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if len(c.entries) == 0 {
		c.mu.Unlock()
		return nil, ErrEmptyBatch
	}
	batch := make([]Entry, len(c.entries))
	copy(batch, c.entries)
	c.progress = Progress{}
	c.mu.Unlock()

	batchID := uuid.NewString()
	files := make([]api.File, 0, len(batch))
	for _, entry := range batch {
		data := entry.Data
		if data == nil {
			var err error
			data, err = os.ReadFile(entry.Path)
			if err != nil {
				return nil, fmt.Errorf("batch %s: failed to read %s: %w", batchID, entry.Name, err)
			}
		}
		files = append(files, api.File{
			Name:        entry.Name,
			ContentType: entry.ContentType,
			Data:        data,
		})
	}

	results, err := c.uploader.UploadFiles(ctx, files, sessionID, c.recordProgress)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	c.entries = nil
	if c.progress.Percent < 100 {
		c.progress.Percent = 100
	}
	return results, nil
}

// recordProgress applies a progress tick, keeping the reported progress
// monotonic: a tick lower than what was already observed is ignored.
func (c *Coordinator) recordProgress(percent int, loaded, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || percent < c.progress.Percent || loaded < c.progress.Loaded {
		return
	}
	c.progress = Progress{Percent: percent, Loaded: loaded, Total: total}
	if c.listener != nil {
		c.listener(c.progress)
	}
}

// CandidatesFromPaths stats each path and builds upload candidates for the
// CLI. Type filtering happens later in AddFiles.
func CandidatesFromPaths(paths []string) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", path)
		}
		candidates = append(candidates, Candidate{
			Name:        filepath.Base(path),
			Size:        info.Size(),
			ContentType: allowedExtensions[strings.ToLower(filepath.Ext(path))],
			Path:        path,
		})
	}
	return candidates, nil
}

func (c *Coordinator) queued(name string, size int64) bool {
	for _, entry := range c.entries {
		if entry.Name == name && entry.Size == size {
			return true
		}
	}
	return false
}

// acceptable checks a candidate against the allow-list by extension first,
// then by declared content type.
func acceptable(cand Candidate) (string, bool) {
	ext := strings.ToLower(filepath.Ext(cand.Name))
	if _, ok := allowedExtensions[ext]; ok {
		return "", true
	}
	for _, mime := range allowedExtensions {
		if cand.ContentType == mime {
			return "", true
		}
	}
	return fmt.Sprintf("unsupported file type %q: allowed types are pdf, doc, docx, xls, xlsx, txt", ext), false
}
