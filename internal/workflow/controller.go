// Package workflow sequences the fixed teaser-creation steps and enforces
// each step's entry preconditions. Forward transitions are denied until the
// current step's required work has completed; backward transitions are
// always permitted and never mutate persisted state.
package workflow

import (
	"errors"
	"fmt"

	"github.com/thomas/teaser-agent/internal/session"
)

// Step is one screen/stage in the fixed forward-progressing workflow.
type Step int

const (
	StepLanding Step = iota
	StepWebsiteInput
	StepFileUpload
	StepCompanyConfirm
	StepTeaserPreview
	StepTeaserExport
)

var stepNames = [...]string{
	"landing",
	"website",
	"upload",
	"confirm",
	"teaser",
	"export",
}

func (s Step) String() string {
	if s < StepLanding || s > StepTeaserExport {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// ErrTerminalStep is returned by Advance from the export step; no forward
// transition is defined beyond it.
var ErrTerminalStep = errors.New("export is the final step")

// TransitionError reports a denied forward transition and why.
type TransitionError struct {
	From   Step
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot advance from %s: %s", e.From, e.Reason)
}

// Controller is the step sequencer. It reads the session store at every
// forward transition that depends on persisted state, and exposes a
// rehydration snapshot so step code never trusts stale in-memory values
// after navigating back.
type Controller struct {
	store         *session.Store
	current       Step
	scraped       bool
	documentReady func() bool
}

// NewController creates a controller positioned at the landing step.
func NewController(store *session.Store) *Controller {
	return &Controller{store: store, current: StepLanding}
}

// Current returns the current step.
func (c *Controller) Current() Step {
	return c.current
}

// MarkScraped records a successful scrape in the current website-input
// visit. The mark does not survive leaving the step.
func (c *Controller) MarkScraped() {
	c.scraped = true
}

// SetDocumentReady registers the predicate consulted when advancing out of
// the teaser preview step; it should report whether the editor holds a
// non-pending document.
func (c *Controller) SetDocumentReady(fn func() bool) {
	c.documentReady = fn
}

// Advance performs the forward transition from the current step, denying it
// when the step's precondition is unmet.
func (c *Controller) Advance() error {
	switch c.current {
	case StepWebsiteInput:
		if !c.scraped {
			return &TransitionError{From: c.current, Reason: "scrape the company website first"}
		}
	case StepCompanyConfirm:
		snap, err := c.store.Get()
		if err != nil {
			return fmt.Errorf("failed to read session state: %w", err)
		}
		if snap.SessionID == "" {
			return &TransitionError{From: c.current, Reason: "confirm the company details first"}
		}
	case StepTeaserPreview:
		if c.documentReady == nil || !c.documentReady() {
			return &TransitionError{From: c.current, Reason: "generate a teaser first"}
		}
	case StepTeaserExport:
		return ErrTerminalStep
	}

	c.current++
	c.scraped = false
	return nil
}

// Back performs the backward transition. It is always permitted, never
// touches the store, and from the landing step is a no-op.
func (c *Controller) Back() error {
	if c.current == StepLanding {
		return nil
	}
	c.current--
	c.scraped = false
	return nil
}

// Snapshot re-reads persisted state from the store. Step code calls this on
// entry so local editable state is rehydrated from the durable truth rather
// than from values cached before a backward navigation.
func (c *Controller) Snapshot() (session.Snapshot, error) {
	return c.store.Get()
}
