package mobile

import (
	"context"
	"errors"

	"github.com/mobistore/mobistore/internal/pagination"
)

// ErrForbidden indicates the principal is not enrolled on the mobile.
var ErrForbidden = errors.New("this mobile does not belong to you")

// Service implements membership-scoped catalog reads.
type Service struct {
	repo Repository
}

// NewService creates a new mobile service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of the principal's mobiles with window metadata.
func (s *Service) List(ctx context.Context, principalID string, page, size int) ([]Mobile, pagination.Meta, error) {
	limit, offset := pagination.Window(page, size)
	mobiles, err := s.repo.ListForUser(ctx, principalID, limit, offset)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	total, err := s.repo.CountForUser(ctx, principalID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return mobiles, pagination.NewMeta(page, size, total), nil
}

// Get fetches a mobile and enforces the membership policy.
func (s *Service) Get(ctx context.Context, id, principalID string) (Mobile, error) {
	mobile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Mobile{}, err
	}
	member, err := s.repo.IsMember(ctx, id, principalID)
	if err != nil {
		return Mobile{}, err
	}
	if !member {
		return Mobile{}, ErrForbidden
	}
	return mobile, nil
}

// Enroll records a user membership on a mobile. There is no HTTP surface for
// this; provisioning happens at onboarding or through operations tooling.
func (s *Service) Enroll(ctx context.Context, mobileID, userID string) error {
	return s.repo.Enroll(ctx, mobileID, userID)
}
