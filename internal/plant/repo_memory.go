package plant

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	plants  map[uint64]Plant
	byOwner map[string][]uint64
	nextID  uint64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		plants:  make(map[uint64]Plant),
		byOwner: make(map[string][]uint64),
		nextID:  1,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, owner string, now time.Time) (Plant, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p := New(owner, now)
	p.ID = r.nextID
	r.nextID++

	r.plants[p.ID] = p
	r.byOwner[owner] = append(r.byOwner[owner], p.ID)

	return p, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id uint64) (Plant, bool, error) {
	_ = ctx

	r.mu.RLock()
	p, ok := r.plants[id]
	r.mu.RUnlock()

	return p, ok, nil
}

func (r *MemoryRepo) Update(ctx context.Context, p Plant) (Plant, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plants[p.ID]; !ok {
		return Plant{}, ErrNotFound
	}
	r.plants[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Plant, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Plant, 0, len(r.plants))
	for _, p := range r.plants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) OwnerPlantIDs(ctx context.Context, owner string) ([]uint64, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOwner[owner]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out, nil
}
