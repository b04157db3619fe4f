package client

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Client
	order   []string
}

// NewMemoryRepository constructs an in-memory repository for tests and development.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Client)}
}

func (r *memoryRepository) Create(_ context.Context, client Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[client.ID] = client
	r.order = append(r.order, client.ID)
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.storage[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return client, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var owned []Client
	for _, id := range r.order {
		client, ok := r.storage[id]
		if ok && client.OwnerID == ownerID {
			owned = append(owned, client)
		}
	}
	if offset >= len(owned) {
		return nil, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

func (r *memoryRepository) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, client := range r.storage {
		if client.OwnerID == ownerID {
			total++
		}
	}
	return total, nil
}

func (r *memoryRepository) Update(_ context.Context, client Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.storage[client.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Firstname = client.Firstname
	stored.Lastname = client.Lastname
	stored.Email = client.Email
	r.storage[client.ID] = stored
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return ErrNotFound
	}
	delete(r.storage, id)
	for i, stored := range r.order {
		if stored == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
