// Package scan drives newly uploaded files through their one-shot threat
// classification.
package scan

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Metadata is the slice of object state the classifier sees. The vault never
// sends content, only descriptive fields.
type Metadata struct {
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// Classifier is the external threat-verdict collaborator. Implementations
// may be slow or fail; the orchestrator treats any error as a fail-open
// CLEAN verdict.
type Classifier interface {
	Classify(ctx context.Context, md Metadata) (*models.ScanVerdict, error)
}
