package service

import (
	"context"
	"fmt"

	"github.com/xela07ax/fleetsim-console/internal/domain"
)

// ProfileProvider — контракт чтения профилей. Профили неизменяемы после
// привязки к исторической телеметрии, поэтому контракт read-only.
type ProfileProvider interface {
	FindProfiles(ctx context.Context, f domain.ProfileFilter) ([]domain.Profile, error)
}

type ProfileService struct {
	repo ProfileProvider
}

func NewProfileService(repo ProfileProvider) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) ListProfiles(ctx context.Context, f domain.ProfileFilter) ([]domain.Profile, error) {
	profiles, err := s.repo.FindProfiles(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("profile_service: failed to fetch profiles: %w", err)
	}
	if profiles == nil {
		return []domain.Profile{}, nil
	}
	return profiles, nil
}
