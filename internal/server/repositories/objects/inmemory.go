package objects

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// InMemoryRepository keeps the catalog in a mutex-guarded map. Every call is
// atomic with respect to the others; returned objects are copies, so callers
// can never mutate stored state.
type InMemoryRepository struct {
	mu      sync.RWMutex
	objects map[string]*models.VaultObject
}

// NewInMemoryRepository returns an empty in-memory catalog.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{objects: make(map[string]*models.VaultObject)}
}

func copyObject(o *models.VaultObject) *models.VaultObject {
	c := *o
	if o.ParentID != nil {
		p := *o.ParentID
		c.ParentID = &p
	}
	if o.ThreatScore != nil {
		s := *o.ThreatScore
		c.ThreatScore = &s
	}
	if o.AnalysisNote != nil {
		n := *o.AnalysisNote
		c.AnalysisNote = &n
	}
	return &c
}

func (r *InMemoryRepository) Create(ctx context.Context, o *models.VaultObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.objects[o.ID]; ok {
		return common.ErrInternal
	}
	r.objects[o.ID] = copyObject(o)
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.VaultObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.objects[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return copyObject(o), nil
}

func (r *InMemoryRepository) ListByParent(ctx context.Context, parentID *string) ([]*models.VaultObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*models.VaultObject
	for _, o := range r.objects {
		switch {
		case parentID == nil && o.ParentID == nil:
			result = append(result, copyObject(o))
		case parentID != nil && o.ParentID != nil && *o.ParentID == *parentID:
			result = append(result, copyObject(o))
		}
	}
	return result, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.objects[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.objects, id)
	return nil
}

func (r *InMemoryRepository) SetScanVerdict(ctx context.Context, id string, v *models.ScanVerdict) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.objects[id]
	if !ok {
		return common.ErrNotFound
	}
	if o.Kind != models.KindFile || o.SecurityStatus != models.StatusPending {
		return common.ErrInvalidTransition
	}
	score := v.Score
	note := v.Analysis
	o.SecurityStatus = v.Status
	o.ThreatScore = &score
	o.AnalysisNote = &note
	return nil
}

func (r *InMemoryRepository) CountByStatus(ctx context.Context) (*models.StatusCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := &models.StatusCounts{}
	for _, o := range r.objects {
		counts.Total++
		switch o.SecurityStatus {
		case models.StatusPending:
			counts.Pending++
		case models.StatusClean:
			counts.Clean++
		case models.StatusWarning:
			counts.Warning++
		case models.StatusInfected:
			counts.Infected++
		}
	}
	return counts, nil
}
