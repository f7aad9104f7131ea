package api

import (
	"time"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type createRequest struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	SizeBytes int64   `json:"sizeBytes"`
	MimeType  string  `json:"mimeType"`
	ParentID  *string `json:"parentId"`
}

type objectResponse struct {
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

func toObjectResponse(o *models.VaultObject) *objectResponse {
	return &objectResponse{
		ID:                 o.ID,
		Name:               o.Name,
		RawNameWasModified: o.RawNameWasModified,
		Kind:               string(o.Kind),
		SizeBytes:          o.SizeBytes,
		MimeType:           o.MimeType,
		CreatedAt:          o.CreatedAt,
		OwnerID:            o.OwnerID,
		OwnerName:          o.OwnerName,
		ParentID:           o.ParentID,
		SecurityStatus:     string(o.SecurityStatus),
		ThreatScore:        o.ThreatScore,
		AnalysisNote:       o.AnalysisNote,
	}
}

type createResponse struct {
	Object    *objectResponse `json:"object"`
	UploadURL string          `json:"uploadUrl,omitempty"`
}

type listResponse struct {
	Items []*objectResponse `json:"items"`
}

type downloadResponse struct {
	Object *objectResponse `json:"object"`
	URL    string          `json:"url,omitempty"`
}

type auditEntryResponse struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	ActorID       string    `json:"actorId"`
	ActorUsername string    `json:"actorUsername"`
	Action        string    `json:"action"`
	Detail        string    `json:"detail"`
	Severity      string    `json:"severity"`
}

type auditResponse struct {
	Entries []*auditEntryResponse `json:"entries"`
}

type statsResponse struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Clean    int `json:"clean"`
	Warning  int `json:"warning"`
	Infected int `json:"infected"`
}
