// Package editor holds the editable teaser document, tracks dirty state
// against the last-saved server copy, and exposes generate, save and
// regenerate operations with mutual exclusion between in-flight mutations.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/thomas/teaser-agent/internal/api"
	"github.com/thomas/teaser-agent/internal/session"
	"github.com/thomas/teaser-agent/internal/types"
)

// State is the editor's lifecycle state.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSaving
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Field selects which part of the working copy an edit targets.
type Field string

const (
	FieldTitle Field = "title"
	FieldBody  Field = "body"
)

// ErrBusy is returned when a save or regenerate is requested while another
// mutating call is in flight. The second call is rejected, never queued.
var ErrBusy = errors.New("another save or regenerate is already in flight")

// ErrClosed is returned when an operation completes after the editor has
// been torn down; its result has been discarded.
var ErrClosed = errors.New("editor is closed")

// API is the slice of the service client the editor depends on.
type API interface {
	GenerateTeaser(ctx context.Context, sessionID string, selectedFiles []string) (*api.TeaserResult, error)
	UpdateTeaser(ctx context.Context, teaserID, title, body string) (*api.TeaserResult, error)
}

// Editor drives the teaser preview/edit step. The working copy and the
// last-saved copy are tracked separately; dirty is their inequality.
type Editor struct {
	api   API
	store *session.Store
	sem   *semaphore.Weighted

	mu        sync.Mutex
	state     State
	sessionID string
	working   types.TeaserDocument
	saved     types.TeaserDocument
	errMsg    string
	closed    bool
}

// New creates an editor for the session currently in the store. Without a
// session the editor starts in the error state; the only recovery path is
// backward navigation to the confirm step.
func New(client API, store *session.Store) *Editor {
	e := &Editor{
		api:   client,
		store: store,
		sem:   semaphore.NewWeighted(1),
		state: StateLoading,
	}

	snap, err := store.Get()
	if err != nil {
		e.state = StateError
		e.errMsg = "failed to read session state"
		return e
	}
	if snap.SessionID == "" {
		e.state = StateError
		e.errMsg = "missing session: confirm the company details first"
		return e
	}
	e.sessionID = snap.SessionID

	// Rehydrate from the last-saved copy if one exists, so re-entering the
	// step discards stale in-memory edits rather than resurrecting them.
	if snap.Teaser.ID != "" {
		e.working = snap.Teaser
		e.saved = snap.Teaser
		e.state = StateReady
	}
	return e
}

// State returns the current lifecycle state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ErrorMessage returns the message for the error state, empty otherwise.
func (e *Editor) ErrorMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMsg
}

// Document returns the working copy.
func (e *Editor) Document() types.TeaserDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.working
}

// Dirty reports whether the working copy differs from the last-saved copy.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.working.Equal(e.saved)
}

// DocumentReady reports whether the editor holds a non-pending document;
// the workflow controller consults this before allowing the export step.
func (e *Editor) DocumentReady() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateReady && e.working.ID != "" && e.working.Status != types.StatusPending
}

// Generate asks the service to produce a teaser for the session and seeds
// both copies identically, so the editor starts clean.
func (e *Editor) Generate(ctx context.Context, selectedFiles []string) error {
	if !e.sem.TryAcquire(1) {
		return ErrBusy
	}
	defer e.sem.Release(1)
	return e.generate(ctx, selectedFiles)
}

// Regenerate replaces the current document with a freshly generated one,
// discarding unsaved edits by design. It is rejected while a save or another
// regenerate is in flight.
func (e *Editor) Regenerate(ctx context.Context, selectedFiles []string) error {
	if !e.sem.TryAcquire(1) {
		return ErrBusy
	}
	defer e.sem.Release(1)
	return e.generate(ctx, selectedFiles)
}

// Edit mutates one field of the working copy. Length caps are enforced
// locally so an over-long edit never reaches the server.
func (e *Editor) Edit(field Field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady {
		return fmt.Errorf("cannot edit while %s", e.state)
	}

	next := e.working
	switch field {
	case FieldTitle:
		next.Title = value
	case FieldBody:
		next.Body = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	if err := next.ValidateContent(); err != nil {
		return err
	}
	e.working = next
	return nil
}

// Save persists the working copy. It is a no-op when the editor is not
// dirty and performs no remote call in that case.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateReady {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("cannot save while %s", state)
	}
	if e.working.Equal(e.saved) {
		e.mu.Unlock()
		return nil
	}
	doc := e.working
	e.mu.Unlock()

	if !e.sem.TryAcquire(1) {
		return ErrBusy
	}
	defer e.sem.Release(1)

	e.setState(StateSaving, "")
	result, err := e.api.UpdateTeaser(ctx, doc.ID, doc.Title, doc.Body)
	if err != nil {
		e.setState(StateError, api.UserMessage(err))
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	saved := result.Teaser
	saved.Status = result.Status
	e.saved = saved
	e.working = saved
	e.state = StateReady
	e.errMsg = ""

	return e.recordTeaser(saved)
}

// Close tears the editor down. Responses arriving afterwards are discarded
// and never written to the session store.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

func (e *Editor) generate(ctx context.Context, selectedFiles []string) error {
	e.mu.Lock()
	if e.sessionID == "" {
		e.mu.Unlock()
		return errors.New(e.errMsg)
	}
	sessionID := e.sessionID
	e.state = StateLoading
	e.errMsg = ""
	e.mu.Unlock()

	result, err := e.api.GenerateTeaser(ctx, sessionID, selectedFiles)
	if err != nil {
		e.setState(StateError, api.UserMessage(err))
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	doc := result.Teaser
	doc.Status = result.Status
	e.working = doc
	e.saved = doc
	e.state = StateReady
	e.errMsg = ""

	return e.recordTeaser(doc)
}

// recordTeaser writes the document identifier and the saved copy into the
// session store: the identifier is the explicit handoff the export step
// resolves, the copy is what a re-entered editor rehydrates from. Called
// only after a confirmed success response, and with e.mu held.
func (e *Editor) recordTeaser(doc types.TeaserDocument) error {
	err := e.store.Put(session.Patch{LastTeaserID: &doc.ID, Teaser: &doc})
	if err != nil {
		return fmt.Errorf("failed to record teaser: %w", err)
	}
	return nil
}

func (e *Editor) setState(state State, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.state = state
	e.errMsg = msg
}
