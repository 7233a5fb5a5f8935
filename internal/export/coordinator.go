// Package export fetches the rendered artifact for a completed teaser,
// exposes a paginated preview cursor over it, and writes the download. The
// target document is resolved from the identifier the editor recorded in the
// session store; no server lookup for "the current document" exists.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/thomas/teaser-agent/internal/api"
	"github.com/thomas/teaser-agent/internal/session"
)

// State is the export step's lifecycle state.
type State int

const (
	StateResolving State = iota
	StateFetching
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNoDocument is returned when no teaser identifier is resolvable from the
// session store; recovery requires backward navigation to generate one.
var ErrNoDocument = errors.New("generate a document first")

// ErrNotReady is returned by Download before a successful Load.
var ErrNotReady = errors.New("no artifact fetched")

// Fetcher is the slice of the service client the coordinator depends on.
type Fetcher interface {
	FetchExportArtifact(ctx context.Context, teaserID string) ([]byte, error)
}

// Coordinator owns the fetched artifact for the lifetime of the export view.
type Coordinator struct {
	fetcher Fetcher
	store   *session.Store

	state      State
	artifact   []byte
	teaserID   string
	page       int
	totalPages int
	errMsg     string
	notFound   bool
}

// New creates a coordinator in the resolving state.
func New(fetcher Fetcher, store *session.Store) *Coordinator {
	return &Coordinator{fetcher: fetcher, store: store, state: StateResolving}
}

// Load resolves the target teaser from the session store and fetches its
// rendered artifact. Every call fetches fresh; no artifact state survives a
// failure.
func (c *Coordinator) Load(ctx context.Context) error {
	c.state = StateResolving
	c.artifact = nil
	c.page = 0
	c.totalPages = 0
	c.errMsg = ""
	c.notFound = false

	snap, err := c.store.Get()
	if err != nil {
		c.state = StateError
		c.errMsg = "failed to read session state"
		return fmt.Errorf("failed to read session state: %w", err)
	}
	if snap.LastTeaserID == "" {
		c.state = StateError
		c.errMsg = ErrNoDocument.Error()
		return ErrNoDocument
	}
	c.teaserID = snap.LastTeaserID

	c.state = StateFetching
	data, err := c.fetcher.FetchExportArtifact(ctx, c.teaserID)
	if err != nil {
		c.state = StateError
		c.notFound = api.IsKind(err, api.KindNotFound)
		c.errMsg = api.UserMessage(err)
		return err
	}

	c.artifact = data
	c.state = StateReady
	c.page = 1

	// The artifact bytes stand on their own; if they cannot be paginated the
	// preview is unavailable but the download still works.
	if count, err := pdfapi.PageCount(bytes.NewReader(data), nil); err == nil {
		c.totalPages = count
	}
	return nil
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return c.state
}

// ErrorMessage returns the message for the error state, empty otherwise.
func (c *Coordinator) ErrorMessage() string {
	return c.errMsg
}

// NotFound reports whether the failure was a missing artifact, which the
// user-facing text distinguishes from other failures.
func (c *Coordinator) NotFound() bool {
	return c.notFound
}

// Artifact returns the fetched bytes, nil unless ready.
func (c *Coordinator) Artifact() []byte {
	return c.artifact
}

// Page returns the preview cursor position, 0 unless ready.
func (c *Coordinator) Page() int {
	return c.page
}

// TotalPages returns the artifact's page count, 0 when pagination is
// unavailable.
func (c *Coordinator) TotalPages() int {
	return c.totalPages
}

// NextPage moves the preview cursor forward, clamped to the last page.
func (c *Coordinator) NextPage() {
	if c.state != StateReady || c.totalPages == 0 {
		return
	}
	if c.page < c.totalPages {
		c.page++
	}
}

// PrevPage moves the preview cursor backward, clamped to the first page.
func (c *Coordinator) PrevPage() {
	if c.state != StateReady || c.totalPages == 0 {
		return
	}
	if c.page > 1 {
		c.page--
	}
}

// Download writes the artifact to path. It works whenever the fetch
// succeeded, independent of whether the preview could be paginated.
func (c *Coordinator) Download(path string) error {
	if c.state != StateReady || c.artifact == nil {
		return ErrNotReady
	}
	if err := os.WriteFile(path, c.artifact, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
