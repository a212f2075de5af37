package service

import (
	"context"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
)

// DashboardCache stores the computed dashboard summary between mutations.
// Implementations must treat backend failures as cache misses.
//
// Entries are scoped to a generation. Invalidate moves to a new generation, so
// a summary built from reads taken before the invalidation can still be Set
// but is never returned by Get.
type DashboardCache interface {
	// Get returns the entry of the current generation, and that generation
	// even on a miss. gen < 0 means the generation is unknown.
	Get(ctx context.Context) (v *dto.DashboardResponse, gen int64, ok bool)
	// Set stores v under gen. It is a no-op when gen < 0.
	Set(ctx context.Context, gen int64, v *dto.DashboardResponse)
	Invalidate(ctx context.Context)
	// Lock tries to take the rebuild lock. ok is false when another process
	// holds it; release is always safe to call.
	Lock(ctx context.Context) (release func(), ok bool)
}

type noopCache struct{}

func (noopCache) Get(context.Context) (*dto.DashboardResponse, int64, bool) { return nil, -1, false }
func (noopCache) Set(context.Context, int64, *dto.DashboardResponse)        {}
func (noopCache) Invalidate(context.Context)                                {}
func (noopCache) Lock(context.Context) (func(), bool)                       { return func() {}, true }

func cacheOrNoop(c DashboardCache) DashboardCache {
	if c == nil {
		return noopCache{}
	}
	return c
}
