package api

import (
	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas for success-response bodies. A 2xx response that violates its
// schema is a protocol error: the server answered, but not in the shape the
// workflow depends on (for example a confirm response without a session_id).
const (
	scrapeResponseSchema = `{
		"type": "object",
		"required": ["company", "found"],
		"properties": {
			"company": {"type": "object"},
			"found": {"type": "boolean"}
		}
	}`

	confirmResponseSchema = `{
		"type": "object",
		"required": ["session_id"],
		"properties": {
			"session_id": {"type": "string", "minLength": 1}
		}
	}`

	teaserResponseSchema = `{
		"type": "object",
		"required": ["teaser", "status"],
		"properties": {
			"teaser": {
				"type": "object",
				"required": ["teaser_id", "title", "content"],
				"properties": {
					"teaser_id": {"type": "string", "minLength": 1},
					"title": {"type": "string"},
					"content": {"type": "string"}
				}
			},
			"status": {"type": "string"}
		}
	}`
)

// validateShape checks a success body against its schema and reports the
// first violation verbatim to aid diagnosis.
func validateShape(op, schema string, body []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(body),
	)
	if err != nil {
		return &Error{
			Kind:    KindParse,
			Op:      op,
			Message: "response body is not valid JSON",
			Cause:   err,
		}
	}
	if result.Valid() {
		return nil
	}

	desc := result.Errors()[0]
	field := desc.Field()
	if field == "" {
		field = "(root)"
	}
	return &Error{
		Kind:    KindProtocol,
		Op:      op,
		Message: field + ": " + desc.Description(),
	}
}
