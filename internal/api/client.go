package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thomas/teaser-agent/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Config configures the teaser service client.
type Config struct {
	// BaseURL is the service root, e.g. "https://teaser.example.com".
	BaseURL string
	// Token, when set, is sent as a bearer token on every request.
	Token string
	// Timeout overrides DefaultTimeout. Ignored when HTTPClient is set.
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client issues requests to the remote teaser service. All operations return
// either a decoded result or an *Error carrying a Kind classification; no
// caller inspects HTTP status codes.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	exec    *executor
}

// New creates a Client for the service at cfg.BaseURL.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    httpClient,
		exec:    newExecutor(),
	}
}

// ScrapeResult is the scrape endpoint response: the extracted profile plus a
// flag reporting whether anything usable was found.
type ScrapeResult struct {
	Company types.CompanyProfile `json:"company"`
	Found   bool                 `json:"found"`
}

// TeaserResult is the response shape shared by the generate and update
// endpoints.
type TeaserResult struct {
	Teaser types.TeaserDocument   `json:"teaser"`
	Status types.GenerationStatus `json:"status"`
}

// UploadedFile describes one file the server accepted.
type UploadedFile struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	PreviewText string `json:"preview_text,omitempty"`
}

// File is one file to include in an upload request.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ScrapeCompany asks the service to extract a company profile from the given
// website URL.
func (c *Client) ScrapeCompany(ctx context.Context, websiteURL string) (*ScrapeResult, error) {
	var result ScrapeResult
	payload := map[string]string{"url": strings.TrimSpace(websiteURL)}
	if err := c.postJSON(ctx, "scrape", "/api/scrape", payload, scrapeResponseSchema, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmCompany submits the confirmed profile and returns the session
// identifier issued for it. A success response without a session_id is a
// protocol error.
func (c *Client) ConfirmCompany(ctx context.Context, profile types.CompanyProfile) (string, error) {
	var result struct {
		SessionID string `json:"session_id"`
	}
	payload := map[string]any{"company": profile}
	if err := c.postJSON(ctx, "confirm", "/api/company/confirm", payload, confirmResponseSchema, &result); err != nil {
		return "", err
	}
	return result.SessionID, nil
}

// GenerateTeaser asks the service to produce a teaser document for the
// session. selectedFiles optionally restricts which uploaded files inform the
// generation.
func (c *Client) GenerateTeaser(ctx context.Context, sessionID string, selectedFiles []string) (*TeaserResult, error) {
	payload := map[string]any{"session_id": sessionID}
	if selectedFiles != nil {
		payload["selected_files"] = selectedFiles
	}
	var result TeaserResult
	if err := c.postJSON(ctx, "generate", "/api/generate", payload, teaserResponseSchema, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateTeaser persists edited title and content for an existing teaser.
func (c *Client) UpdateTeaser(ctx context.Context, teaserID, title, body string) (*TeaserResult, error) {
	payload := map[string]any{
		"teaser_id": teaserID,
		"title":     title,
		"content":   body,
	}
	path := "/api/teaser/" + url.PathEscape(teaserID) + "/update"
	var result TeaserResult
	if err := c.postJSON(ctx, "update", path, payload, teaserResponseSchema, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadFiles sends the files as one multipart request. onProgress, when
// non-nil, receives fractional progress as the body streams out; it may fire
// zero or more times before completion.
func (c *Client) UploadFiles(ctx context.Context, files []File, sessionID string, onProgress ProgressFunc) ([]UploadedFile, error) {
	const op = "upload"

	if len(files) == 0 {
		return nil, &Error{Kind: KindValidation, Op: op, Message: "no files provided"}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Op: op, Message: "failed to encode file " + f.Name, Cause: err}
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, &Error{Kind: KindValidation, Op: op, Message: "failed to encode file " + f.Name, Cause: err}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Kind: KindValidation, Op: op, Message: "failed to finalize upload body", Cause: err}
	}

	uploadURL := c.baseURL + "/api/upload"
	if sessionID != "" {
		uploadURL += "?company_id=" + url.QueryEscape(sessionID)
	}
	body := buf.Bytes()
	total := int64(len(body))

	var respBody []byte
	err := c.exec.do(ctx, op, func(ctx context.Context) error {
		reader := newProgressReader(bytes.NewReader(body), total, onProgress)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, reader)
		if err != nil {
			return &Error{Kind: KindNetwork, Op: op, Message: "failed to create request", Cause: err}
		}
		req.ContentLength = total
		req.Header.Set("Content-Type", writer.FormDataContentType())
		c.setCommonHeaders(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return &Error{Kind: KindNetwork, Op: op, Message: "network error during file upload", Cause: err}
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &Error{Kind: KindNetwork, Op: op, Message: "failed to read response body", Cause: err}
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return c.classify(op, resp.StatusCode, data)
		}
		respBody = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Files []UploadedFile `json:"files"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &Error{Kind: KindParse, Op: op, Message: "could not parse upload response", Cause: err}
	}
	if result.Files == nil {
		return nil, &Error{Kind: KindParse, Op: op, Message: "upload response is missing the files list"}
	}
	return result.Files, nil
}

// FetchExportArtifact retrieves the rendered PDF for a teaser. A success
// response whose content type is not application/pdf is a protocol error.
func (c *Client) FetchExportArtifact(ctx context.Context, teaserID string) ([]byte, error) {
	const op = "export"

	var artifact []byte
	err := c.exec.do(ctx, op, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/export/"+url.PathEscape(teaserID), nil)
		if err != nil {
			return &Error{Kind: KindNetwork, Op: op, Message: "failed to create request", Cause: err}
		}
		req.Header.Set("Accept", "application/pdf")
		c.setCommonHeaders(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return &Error{Kind: KindNetwork, Op: op, Message: "HTTP request failed", Cause: err}
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &Error{Kind: KindNetwork, Op: op, Message: "failed to read response body", Cause: err}
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return c.classify(op, resp.StatusCode, data)
		}

		contentType := resp.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "application/pdf") {
			return &Error{
				Kind:    KindProtocol,
				Op:      op,
				Message: fmt.Sprintf("expected application/pdf, got %q", contentType),
			}
		}
		artifact = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return artifact, nil
}

// postJSON issues a JSON POST, classifies failures, validates the success
// body against schema when given, and decodes it into out.
func (c *Client) postJSON(ctx context.Context, op, path string, payload any, schema string, out any) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return &Error{Kind: KindValidation, Op: op, Message: "failed to encode request", Cause: err}
	}

	var respBody []byte
	err = c.exec.do(ctx, op, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
		if err != nil {
			return &Error{Kind: KindNetwork, Op: op, Message: "failed to create request", Cause: err}
		}
		req.Header.Set("Content-Type", "application/json")
		c.setCommonHeaders(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return &Error{Kind: KindNetwork, Op: op, Message: "HTTP request failed", Cause: err}
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &Error{Kind: KindNetwork, Op: op, Message: "failed to read response body", Cause: err}
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return c.classify(op, resp.StatusCode, data)
		}
		respBody = data
		return nil
	})
	if err != nil {
		return err
	}

	if schema != "" {
		if err := validateShape(op, schema, respBody); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: KindParse, Op: op, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// classify converts a non-success status into the error kind each endpoint
// documents. The detail message, when the server provides one, is carried
// through so it can be surfaced to the user.
func (c *Client) classify(op string, status int, body []byte) *Error {
	kind := KindServer
	switch op {
	case "scrape":
		switch status {
		case http.StatusUnprocessableEntity:
			kind = KindValidation
		case http.StatusBadRequest:
			kind = KindUnreachable
		}
	case "upload":
		if status == http.StatusBadRequest {
			kind = KindRejected
		}
	case "confirm", "generate", "update":
		if status == http.StatusUnprocessableEntity || status == http.StatusBadRequest {
			kind = KindValidation
		}
	case "export":
		if status == http.StatusNotFound {
			kind = KindNotFound
		}
	}

	return &Error{
		Kind:       kind,
		Op:         op,
		StatusCode: status,
		Message:    detailMessage(body, status),
	}
}

// detailMessage extracts the server's error detail: a JSON body with a
// "detail" field wins, then a short plain-text body, then a generic message.
func detailMessage(body []byte, status int) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	text := strings.TrimSpace(string(body))
	if text != "" && len(text) < 300 && !strings.HasPrefix(text, "{") {
		return text
	}
	switch {
	case status == http.StatusUnprocessableEntity:
		return "validation error"
	case status == http.StatusBadRequest:
		return "invalid input"
	default:
		return "request failed"
	}
}
