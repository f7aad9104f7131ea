// Package api is the HTTP client for the vault server, used by the
// vaultctl command.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Object mirrors the server's object representation.
type Object struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	RawNameWasModified bool      `json:"rawNameWasModified"`
	Kind               string    `json:"kind"`
	SizeBytes          int64     `json:"sizeBytes"`
	MimeType           string    `json:"mimeType,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	OwnerID            string    `json:"ownerId"`
	OwnerName          string    `json:"ownerName"`
	ParentID           *string   `json:"parentId"`
	SecurityStatus     string    `json:"securityStatus"`
	ThreatScore        *int      `json:"threatScore,omitempty"`
	AnalysisNote       *string   `json:"analysisNote,omitempty"`
}

// CreateRequest describes a new object to the server.
type CreateRequest struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	SizeBytes int64   `json:"sizeBytes"`
	MimeType  string  `json:"mimeType"`
	ParentID  *string `json:"parentId"`
}

// CreateResult is the server's answer to a create call.
type CreateResult struct {
	Object    *Object `json:"object"`
	UploadURL string  `json:"uploadUrl"`
}

// DownloadResult carries the object and its presigned content URL.
type DownloadResult struct {
	Object *Object `json:"object"`
	URL    string  `json:"url"`
}

// AuditEntry mirrors a server audit log entry.
type AuditEntry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	ActorID       string    `json:"actorId"`
	ActorUsername string    `json:"actorUsername"`
	Action        string    `json:"action"`
	Detail        string    `json:"detail"`
	Severity      string    `json:"severity"`
}

// Stats mirrors the server's per-status totals.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Clean    int `json:"clean"`
	Warning  int `json:"warning"`
	Infected int `json:"infected"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client talks to a vault server with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the server at baseURL.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e errorBody
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Message == "" {
			return fmt.Errorf("server returned %s", resp.Status)
		}
		return fmt.Errorf("%s: %s", e.Code, e.Message)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Create registers a new file or folder.
func (c *Client) Create(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	var res CreateResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/objects", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// List returns the visible children of parentID (empty = root), optionally
// filtered by a search term.
func (c *Client) List(ctx context.Context, parentID, search string) ([]*Object, error) {
	q := url.Values{}
	if parentID != "" {
		q.Set("parentId", parentID)
	}
	if search != "" {
		q.Set("search", search)
	}
	path := "/api/v1/objects"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var res struct {
		Items []*Object `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Get fetches a single object by id.
func (c *Client) Get(ctx context.Context, id string) (*Object, error) {
	var o Object
	if err := c.do(ctx, http.MethodGet, "/api/v1/objects/"+id, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Delete removes an object by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/objects/"+id, nil, nil)
}

// Download asks the server for a presigned content URL.
func (c *Client) Download(ctx context.Context, id string) (*DownloadResult, error) {
	var res DownloadResult
	if err := c.do(ctx, http.MethodGet, "/api/v1/objects/"+id+"/download", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AuditTail returns the n most recent audit entries, newest first.
func (c *Client) AuditTail(ctx context.Context, n int) ([]*AuditEntry, error) {
	var res struct {
		Entries []*AuditEntry `json:"entries"`
	}
	path := "/api/v1/audit"
	if n > 0 {
		path += "?n=" + strconv.Itoa(n)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Entries, nil
}

// Stats returns the catalog totals.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
