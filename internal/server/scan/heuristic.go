package scan

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// HeuristicClassifier is the offline fallback used when no classifier
// endpoint is configured. It applies a few cheap metadata rules; it never
// fails.
type HeuristicClassifier struct{}

// NewHeuristicClassifier returns the rule-based classifier.
func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{}
}

var riskyExtensions = map[string]struct{}{
	".exe": {}, ".bat": {}, ".cmd": {}, ".sh": {}, ".js": {}, ".scr": {},
}

// Classify scores the metadata against naming and extension rules.
func (c *HeuristicClassifier) Classify(ctx context.Context, md Metadata) (*models.ScanVerdict, error) {
	name := strings.ToLower(md.Name)
	score := 0
	var findings []string

	// double extension, e.g. invoice.pdf.exe before sanitizing
	if strings.Count(name, ".") > 1 {
		score += 25
		findings = append(findings, "multiple extensions")
	}
	if _, ok := riskyExtensions[filepath.Ext(name)]; ok {
		score += 60
		findings = append(findings, "executable extension")
	}
	if strings.Contains(name, "__") {
		score += 15
		findings = append(findings, "suspicious characters replaced during sanitizing")
	}
	if md.SizeBytes == 0 {
		score += 10
		findings = append(findings, "empty file")
	}
	if score > 100 {
		score = 100
	}

	verdict := &models.ScanVerdict{Status: models.StatusClean, Score: score, Analysis: "No anomalies detected."}
	switch {
	case score >= 60:
		verdict.Status = models.StatusInfected
	case score >= 25:
		verdict.Status = models.StatusWarning
	}
	if len(findings) > 0 {
		verdict.Analysis = strings.Join(findings, "; ")
	}
	return verdict, nil
}
