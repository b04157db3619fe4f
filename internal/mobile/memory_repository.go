package mobile

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository for tests and development.
// Add seeds catalog entries directly, bypassing the read-only API surface.
type MemoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Mobile
	order   []string
	members map[string]map[string]struct{}
}

// NewMemoryRepository constructs an in-memory mobile repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		storage: make(map[string]Mobile),
		members: make(map[string]map[string]struct{}),
	}
}

// Add seeds a catalog entry.
func (r *MemoryRepository) Add(mobile Mobile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[mobile.ID]; !exists {
		r.order = append(r.order, mobile.ID)
	}
	r.storage[mobile.ID] = mobile
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (Mobile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mobile, ok := r.storage[id]
	if !ok {
		return Mobile{}, ErrNotFound
	}
	return mobile, nil
}

func (r *MemoryRepository) ListForUser(_ context.Context, userID string, limit, offset int) ([]Mobile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var visible []Mobile
	for _, id := range r.order {
		if _, member := r.members[id][userID]; member {
			visible = append(visible, r.storage[id])
		}
	}
	if offset >= len(visible) {
		return nil, nil
	}
	end := offset + limit
	if end > len(visible) {
		end = len(visible)
	}
	return visible[offset:end], nil
}

func (r *MemoryRepository) CountForUser(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, users := range r.members {
		if _, member := users[userID]; member {
			total++
		}
	}
	return total, nil
}

func (r *MemoryRepository) IsMember(_ context.Context, mobileID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, member := r.members[mobileID][userID]
	return member, nil
}

func (r *MemoryRepository) Enroll(_ context.Context, mobileID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[mobileID]; !ok {
		return ErrNotFound
	}
	if r.members[mobileID] == nil {
		r.members[mobileID] = make(map[string]struct{})
	}
	r.members[mobileID][userID] = struct{}{}
	return nil
}
