package gardener

import "sync"

type MemoryRepo struct {
	mu        sync.RWMutex
	gardeners map[string]Gardener
	byToken   map[string]string // token hash -> gardener id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		gardeners: make(map[string]Gardener),
		byToken:   make(map[string]string),
	}
}

func (r *MemoryRepo) Put(g Gardener, tokenHash string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gardeners[g.ID] = g
	r.byToken[tokenHash] = g.ID
}

func (r *MemoryRepo) Get(id string) (Gardener, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.gardeners[id]
	return g, ok
}

func (r *MemoryRepo) GetByTokenHash(hash string) (Gardener, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[hash]
	if !ok {
		return Gardener{}, false
	}
	g, ok := r.gardeners[id]
	return g, ok
}
