package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeaserDocument_Equal(t *testing.T) {
	base := TeaserDocument{ID: "t-1", Title: "Project Falcon", Body: "An overview."}

	assert.True(t, base.Equal(base))

	edited := base
	edited.Body = "A different overview."
	assert.False(t, base.Equal(edited))

	// Status does not participate in content equality.
	pending := base
	pending.Status = StatusPending
	assert.True(t, base.Equal(pending))
}

func TestTeaserDocument_ValidateContent(t *testing.T) {
	doc := TeaserDocument{
		ID:    "t-1",
		Title: "Project Falcon",
		Body:  "An overview.",
	}
	require.NoError(t, doc.ValidateContent())

	doc.Title = strings.Repeat("a", MaxTitleLength)
	require.NoError(t, doc.ValidateContent())
	doc.Title = strings.Repeat("a", MaxTitleLength+1)
	require.Error(t, doc.ValidateContent())

	doc.Title = "Project Falcon"
	doc.Body = strings.Repeat("b", MaxBodyLength)
	require.NoError(t, doc.ValidateContent())
	doc.Body = strings.Repeat("b", MaxBodyLength+1)
	require.Error(t, doc.ValidateContent())
}

func TestTeaserDocument_JSONFieldNames(t *testing.T) {
	doc := TeaserDocument{
		ID:     "t-1",
		Title:  "Project Falcon",
		Body:   "An overview.",
		Status: StatusSuccess,
	}

	jsonBytes, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"teaser_id":"t-1"`)
	assert.Contains(t, string(jsonBytes), `"content":"An overview."`)
	assert.Contains(t, string(jsonBytes), `"status":"success"`)
}
