package objects

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

func TestInMemory_ReturnsCopies(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	o := testFile("f-1", "u-1", nil)
	require.NoError(t, repo.Create(ctx, o))

	got1, err := repo.Get(ctx, "f-1")
	require.NoError(t, err)
	got1.Name = "mutated"
	got1.SecurityStatus = models.StatusInfected

	got2, err := repo.Get(ctx, "f-1")
	require.NoError(t, err)
	if diff := cmp.Diff(o, got2); diff != "" {
		t.Fatalf("stored object changed through a returned copy (-want +got):\n%s", diff)
	}
}

func TestInMemory_SetScanVerdict_Terminal(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testFile("f-1", "u-1", nil)))
	require.NoError(t, repo.SetScanVerdict(ctx, "f-1", &models.ScanVerdict{Status: models.StatusClean, Score: 1, Analysis: "ok"}))

	err := repo.SetScanVerdict(ctx, "f-1", &models.ScanVerdict{Status: models.StatusInfected})
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	err = repo.SetScanVerdict(ctx, "gone", &models.ScanVerdict{Status: models.StatusClean})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestInMemory_ConcurrentCreatesAndReads(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = repo.Create(ctx, testFile(fmt.Sprintf("f-%d", i), "u-1", nil))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = repo.ListByParent(ctx, nil)
		}()
	}
	wg.Wait()

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, counts.Total)
}
