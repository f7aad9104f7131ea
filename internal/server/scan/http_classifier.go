package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// HTTPClassifier calls an ollama-style JSON endpoint that analyzes file
// metadata and returns a structured verdict.
type HTTPClassifier struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewHTTPClassifier builds a classifier for the given endpoint. timeout
// bounds the whole request; a zero timeout leaves the client unbounded.
func NewHTTPClassifier(baseURL, model string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

const classifyPrompt = `Perform a security analysis on the following file metadata:
Name: %s
Type: %s
Size: %d bytes

Look for potential injection patterns in the filename, mismatched extensions, or unusual characteristics that might suggest malware or malicious intent.
Return a JSON object with fields "status" (CLEAN, WARNING or INFECTED), "score" (risk score 0-100) and "analysis" (brief explanation).`

// Classify posts the metadata prompt and decodes the verdict.
func (c *HTTPClassifier) Classify(ctx context.Context, md Metadata) (*models.ScanVerdict, error) {
	payload := map[string]any{
		"model":  c.model,
		"prompt": fmt.Sprintf(classifyPrompt, md.Name, md.MimeType, md.SizeBytes),
		"format": "json",
		"stream": false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("classifier encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("classifier read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier status %d: %s", resp.StatusCode, respBody)
	}

	var outer struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &outer); err != nil {
		return nil, fmt.Errorf("classifier decode: %w", err)
	}

	var verdict struct {
		Status   string `json:"status"`
		Score    int    `json:"score"`
		Analysis string `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(outer.Response), &verdict); err != nil {
		return nil, fmt.Errorf("classifier verdict decode: %w", err)
	}

	status := models.SecurityStatus(verdict.Status)
	if !status.Terminal() {
		return nil, fmt.Errorf("classifier returned unexpected status %q", verdict.Status)
	}
	if verdict.Score < 0 {
		verdict.Score = 0
	}
	if verdict.Score > 100 {
		verdict.Score = 100
	}

	return &models.ScanVerdict{Status: status, Score: verdict.Score, Analysis: verdict.Analysis}, nil
}
