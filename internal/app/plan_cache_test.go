package app

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/autopayplan/planner-service/internal/domain"
)

func TestMemoryPlanCache_RoundTrip(t *testing.T) {
	cache := NewMemoryPlanCache()
	ctx := context.Background()

	if _, ok := cache.GetProjection(ctx, "missing"); ok {
		t.Fatalf("expected a miss on an empty cache")
	}

	stored := domain.ProjectionResult{MonthsSimulated: 12}
	cache.SetProjection(ctx, "k", stored)

	got, ok := cache.GetProjection(ctx, "k")
	if !ok || got.MonthsSimulated != 12 {
		t.Fatalf("expected the stored projection back, got %+v ok=%v", got, ok)
	}

	// The cache hands out copies; mutating a result must not poison the entry.
	got.MonthsSimulated = 99
	again, _ := cache.GetProjection(ctx, "k")
	if again.MonthsSimulated != 12 {
		t.Fatalf("cache entry was mutated through a returned pointer: %+v", again)
	}
}

func TestMemoryPlanCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryPlanCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("profile-%d", n%4)
			for j := 0; j < 100; j++ {
				cache.SetProjection(ctx, key, domain.ProjectionResult{MonthsSimulated: j})
				cache.GetProjection(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	for n := 0; n < 4; n++ {
		if _, ok := cache.GetProjection(ctx, fmt.Sprintf("profile-%d", n)); !ok {
			t.Fatalf("expected an entry for profile-%d after the writers finished", n)
		}
	}
}
