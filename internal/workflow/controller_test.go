package workflow

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas/teaser-agent/internal/session"
	"github.com/thomas/teaser-agent/internal/types"
)

func openTestStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestController_StartsAtLanding(t *testing.T) {
	c := NewController(openTestStore(t))
	assert.Equal(t, StepLanding, c.Current())
}

func TestController_AdvanceFromLandingIsUnconditional(t *testing.T) {
	c := NewController(openTestStore(t))
	require.NoError(t, c.Advance())
	assert.Equal(t, StepWebsiteInput, c.Current())
}

func TestController_WebsiteRequiresScrape(t *testing.T) {
	c := NewController(openTestStore(t))
	require.NoError(t, c.Advance())

	err := c.Advance()
	var terr *TransitionError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, StepWebsiteInput, terr.From)
	assert.Equal(t, StepWebsiteInput, c.Current())

	c.MarkScraped()
	require.NoError(t, c.Advance())
	assert.Equal(t, StepFileUpload, c.Current())
}

func TestController_UploadStepIsOptional(t *testing.T) {
	c := advanceTo(t, openTestStore(t), StepFileUpload)

	// No files uploaded; forward is still allowed.
	require.NoError(t, c.Advance())
	assert.Equal(t, StepCompanyConfirm, c.Current())
}

func TestController_ConfirmRequiresSession(t *testing.T) {
	store := openTestStore(t)
	c := advanceTo(t, store, StepCompanyConfirm)

	err := c.Advance()
	var terr *TransitionError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, StepCompanyConfirm, terr.From)

	sessionID := "sess-123"
	require.NoError(t, store.Put(session.Patch{SessionID: &sessionID}))
	require.NoError(t, c.Advance())
	assert.Equal(t, StepTeaserPreview, c.Current())
}

func TestController_PreviewRequiresDocument(t *testing.T) {
	store := openTestStore(t)
	c := advanceTo(t, store, StepTeaserPreview)

	// No readiness predicate registered yet.
	err := c.Advance()
	var terr *TransitionError
	require.True(t, errors.As(err, &terr))

	ready := false
	c.SetDocumentReady(func() bool { return ready })
	require.Error(t, c.Advance())

	ready = true
	require.NoError(t, c.Advance())
	assert.Equal(t, StepTeaserExport, c.Current())
}

func TestController_ExportIsTerminal(t *testing.T) {
	c := advanceTo(t, openTestStore(t), StepTeaserExport)
	assert.ErrorIs(t, c.Advance(), ErrTerminalStep)
	assert.Equal(t, StepTeaserExport, c.Current())
}

func TestController_BackIsAlwaysAllowed(t *testing.T) {
	store := openTestStore(t)
	c := advanceTo(t, store, StepTeaserExport)

	for expected := StepTeaserPreview; ; expected-- {
		require.NoError(t, c.Back())
		assert.Equal(t, expected, c.Current())
		if expected == StepLanding {
			break
		}
	}

	// Back at the landing step is a no-op, not an error.
	require.NoError(t, c.Back())
	assert.Equal(t, StepLanding, c.Current())

	// Backing out never clears the persisted session.
	snap, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "sess-123", snap.SessionID)
}

func TestController_ScrapeMarkDoesNotSurviveLeavingStep(t *testing.T) {
	store := openTestStore(t)
	c := NewController(store)
	require.NoError(t, c.Advance())
	c.MarkScraped()
	require.NoError(t, c.Advance())

	// Going back to the website step requires scraping again.
	require.NoError(t, c.Back())
	assert.Equal(t, StepWebsiteInput, c.Current())

	err := c.Advance()
	var terr *TransitionError
	require.True(t, errors.As(err, &terr))
}

func TestController_SnapshotRereadsStore(t *testing.T) {
	store := openTestStore(t)
	c := NewController(store)

	profile := types.CompanyProfile{Name: "Acme Robotics"}
	require.NoError(t, store.Put(session.Patch{Profile: &profile}))

	snap, err := c.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics", snap.Profile.Name)
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "landing", StepLanding.String())
	assert.Equal(t, "export", StepTeaserExport.String())
	assert.Equal(t, "step(99)", Step(99).String())
}

// advanceTo walks the controller forward to the target step, satisfying each
// precondition along the way.
func advanceTo(t *testing.T, store *session.Store, target Step) *Controller {
	t.Helper()
	c := NewController(store)
	for c.Current() < target {
		switch c.Current() {
		case StepWebsiteInput:
			c.MarkScraped()
		case StepCompanyConfirm:
			sessionID := "sess-123"
			require.NoError(t, store.Put(session.Patch{SessionID: &sessionID}))
		case StepTeaserPreview:
			c.SetDocumentReady(func() bool { return true })
		}
		require.NoError(t, c.Advance())
	}
	return c
}
