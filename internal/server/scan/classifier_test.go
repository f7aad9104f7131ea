package scan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

func TestHeuristic_CleanFile(t *testing.T) {
	c := NewHeuristicClassifier()

	v, err := c.Classify(context.Background(), Metadata{Name: "report.pdf", MimeType: "application/pdf", SizeBytes: 5000})
	require.NoError(t, err)
	assert.Equal(t, models.StatusClean, v.Status)
}

func TestHeuristic_ExecutableIsInfected(t *testing.T) {
	c := NewHeuristicClassifier()

	v, err := c.Classify(context.Background(), Metadata{Name: "setup.exe", SizeBytes: 5000})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInfected, v.Status)
	assert.GreaterOrEqual(t, v.Score, 60)
}

func TestHeuristic_SanitizedNameWarns(t *testing.T) {
	c := NewHeuristicClassifier()

	v, err := c.Classify(context.Background(), Metadata{Name: "inv__oice.PDF", SizeBytes: 6000})
	require.NoError(t, err)
	// "__" plus extra dot rules stack into a warning
	assert.NotEqual(t, models.StatusInfected, v.Status)
	assert.Greater(t, v.Score, 0)
}

func TestHTTPClassifier_ParsesVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req["model"])
		assert.Contains(t, req["prompt"], "inv__oice.PDF")

		inner, _ := json.Marshal(map[string]any{
			"status": "WARNING", "score": 55, "analysis": "suspicious naming",
		})
		_ = json.NewEncoder(w).Encode(map[string]string{"response": string(inner)})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, "llama3", time.Second)
	v, err := c.Classify(context.Background(), Metadata{Name: "inv__oice.PDF", MimeType: "application/pdf", SizeBytes: 6000})
	require.NoError(t, err)
	assert.Equal(t, models.StatusWarning, v.Status)
	assert.Equal(t, 55, v.Score)
	assert.Equal(t, "suspicious naming", v.Analysis)
}

func TestHTTPClassifier_ClampsScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner, _ := json.Marshal(map[string]any{"status": "INFECTED", "score": 250, "analysis": "bad"})
		_ = json.NewEncoder(w).Encode(map[string]string{"response": string(inner)})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, "llama3", time.Second)
	v, err := c.Classify(context.Background(), Metadata{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, 100, v.Score)
}

func TestHTTPClassifier_RejectsPendingStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner, _ := json.Marshal(map[string]any{"status": "PENDING", "score": 0, "analysis": ""})
		_ = json.NewEncoder(w).Encode(map[string]string{"response": string(inner)})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, "llama3", time.Second)
	_, err := c.Classify(context.Background(), Metadata{Name: "x"})
	assert.Error(t, err)
}

func TestHTTPClassifier_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, "llama3", time.Second)
	_, err := c.Classify(context.Background(), Metadata{Name: "x"})
	assert.Error(t, err)
}
