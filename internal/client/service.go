package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mobistore/mobistore/internal/pagination"
)

var (
	// ErrForbidden indicates the principal does not own the client.
	ErrForbidden = errors.New("client does not belong to you")
	// ErrInvalid indicates the input failed validation.
	ErrInvalid = errors.New("data not valid")
)

// Service implements owner-scoped client operations.
type Service struct {
	repo Repository
}

// NewService creates a new client service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the input and persists a client owned by the principal.
func (s *Service) Create(ctx context.Context, principalID string, in Input) (Client, error) {
	if err := in.Validate(); err != nil {
		return Client{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	client := Client{
		ID:        uuid.New().String(),
		Firstname: in.Firstname,
		Lastname:  in.Lastname,
		Email:     in.Email,
		OwnerID:   principalID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return Client{}, err
	}

	return client, nil
}

// List returns one page of the principal's clients with window metadata.
func (s *Service) List(ctx context.Context, principalID string, page, size int) ([]Client, pagination.Meta, error) {
	limit, offset := pagination.Window(page, size)
	clients, err := s.repo.ListByOwner(ctx, principalID, limit, offset)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	total, err := s.repo.CountByOwner(ctx, principalID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return clients, pagination.NewMeta(page, size, total), nil
}

// Get fetches a client and enforces the ownership policy.
func (s *Service) Get(ctx context.Context, id, principalID string) (Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Client{}, err
	}
	if !CanAccess(client, principalID) {
		return Client{}, ErrForbidden
	}
	return client, nil
}

// Update copies the writable fields onto an owned client and flushes it.
// Validation failure leaves the persisted state untouched.
func (s *Service) Update(ctx context.Context, id, principalID string, in Input) (Client, error) {
	client, err := s.Get(ctx, id, principalID)
	if err != nil {
		return Client{}, err
	}
	if err := in.Validate(); err != nil {
		return Client{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	client.Firstname = in.Firstname
	client.Lastname = in.Lastname
	client.Email = in.Email

	if err := s.repo.Update(ctx, client); err != nil {
		return Client{}, err
	}

	return client, nil
}

// Delete removes an owned client.
func (s *Service) Delete(ctx context.Context, id, principalID string) error {
	if _, err := s.Get(ctx, id, principalID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
