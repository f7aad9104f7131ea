// Package api exposes the vault over HTTP: a JSON surface under /api/v1,
// token authentication, Prometheus metrics and a liveness probe.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/vault"
)

// Handler holds the HTTP handlers of the vault API.
type Handler struct {
	vault  *vault.Service
	logger logging.Logger
}

// NewHandler wires the API handlers to the vault service.
func NewHandler(svc *vault.Service, logger logging.Logger) *Handler {
	return &Handler{vault: svc, logger: logger.With("module", "api")}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// CreateObject handles POST /api/v1/objects.
func (h *Handler) CreateObject(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		return
	}

	res, err := h.vault.Create(r.Context(), p, &vault.CreateRequest{
		Name:      req.Name,
		Kind:      models.ObjectKind(req.Kind),
		SizeBytes: req.SizeBytes,
		MimeType:  req.MimeType,
		ParentID:  req.ParentID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{
		Object:    toObjectResponse(res.Object),
		UploadURL: res.UploadURL,
	})
}

// ListObjects handles GET /api/v1/objects?parentId=&search=.
// No parentId parameter means the root level.
func (h *Handler) ListObjects(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	var parentID *string
	if v := r.URL.Query().Get("parentId"); v != "" {
		parentID = &v
	}

	items, err := h.vault.List(r.Context(), p, parentID, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]*objectResponse, 0, len(items))
	for _, o := range items {
		out = append(out, toObjectResponse(o))
	}
	writeJSON(w, http.StatusOK, listResponse{Items: out})
}

// GetObject handles GET /api/v1/objects/{id}.
func (h *Handler) GetObject(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	o, err := h.vault.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toObjectResponse(o))
}

// DeleteObject handles DELETE /api/v1/objects/{id}.
func (h *Handler) DeleteObject(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	if err := h.vault.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadObject handles GET /api/v1/objects/{id}/download.
func (h *Handler) DownloadObject(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	res, err := h.vault.Download(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadResponse{
		Object: toObjectResponse(res.Object),
		URL:    res.URL,
	})
}

// AuditTail handles GET /api/v1/audit?n=. Entries come back newest first;
// n defaults to the retention cap.
func (h *Handler) AuditTail(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	n := common.AuditLogCap
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "n must be a positive integer")
			return
		}
		n = parsed
	}

	entries, err := h.vault.AuditTail(r.Context(), p, n)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]*auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, &auditEntryResponse{
			ID:            e.ID,
			Timestamp:     e.Timestamp,
			ActorID:       e.ActorID,
			ActorUsername: e.ActorUsername,
			Action:        string(e.Action),
			Detail:        e.Detail,
			Severity:      string(e.Severity),
		})
	}
	writeJSON(w, http.StatusOK, auditResponse{Entries: out})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	counts, err := h.vault.Stats(r.Context(), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Total:    counts.Total,
		Pending:  counts.Pending,
		Clean:    counts.Clean,
		Warning:  counts.Warning,
		Infected: counts.Infected,
	})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
