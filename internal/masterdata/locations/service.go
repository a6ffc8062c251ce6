package locations

import (
	"context"
	"fmt"
	"strings"

	"github.com/fitdesk/fitdesk/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Location, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Location, error) {
	if id <= 0 {
		return Location{}, fmt.Errorf("%w: invalid location ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, location Location) (Location, error) {
	if err := s.validate(location); err != nil {
		return Location{}, err
	}
	return s.repo.Create(ctx, location)
}

func (s *Service) Update(ctx context.Context, id int64, location Location) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid location ID", httpx.ErrValidation)
	}
	if err := s.validate(location); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, location)
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid location ID", httpx.ErrValidation)
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) validate(l Location) error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: location name is required", httpx.ErrValidation)
	}
	return nil
}
