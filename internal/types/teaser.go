package types

import "fmt"

// MaxTitleLength and MaxBodyLength are the caps the remote service enforces
// on teaser content; they are checked locally before an update call.
const (
	MaxTitleLength = 128
	MaxBodyLength  = 9000
)

// GenerationStatus reports the outcome of a generate or update call.
type GenerationStatus string

const (
	StatusPending GenerationStatus = "pending"
	StatusSuccess GenerationStatus = "success"
	StatusError   GenerationStatus = "error"
)

// TeaserDocument is the editable investment teaser: a server-issued
// identifier plus a title and body.
type TeaserDocument struct {
	ID     string           `json:"teaser_id"`
	Title  string           `json:"title"`
	Body   string           `json:"content"`
	Status GenerationStatus `json:"status,omitempty"`
}

// Equal reports whether two documents carry the same identifier and content.
// The editor computes its dirty flag from this.
func (d TeaserDocument) Equal(other TeaserDocument) bool {
	return d.ID == other.ID && d.Title == other.Title && d.Body == other.Body
}

// ValidateContent checks the title and body length caps.
func (d TeaserDocument) ValidateContent() error {
	if len(d.Title) > MaxTitleLength {
		return fmt.Errorf("title exceeds %d characters", MaxTitleLength)
	}
	if len(d.Body) > MaxBodyLength {
		return fmt.Errorf("content exceeds %d characters", MaxBodyLength)
	}
	return nil
}
