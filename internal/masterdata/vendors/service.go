package vendors

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

func (s *Service) List(ctx context.Context, activeOnly bool) ([]Vendor, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *Service) Get(ctx context.Context, id int64) (Vendor, error) {
	if id <= 0 {
		return Vendor{}, fmt.Errorf("%w: invalid vendor ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, vendor Vendor) (Vendor, error) {
	if err := s.validate(vendor); err != nil {
		return Vendor{}, err
	}
	return s.repo.Create(ctx, vendor)
}

func (s *Service) Update(ctx context.Context, id int64, vendor Vendor) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid vendor ID", httpx.ErrValidation)
	}
	if err := s.validate(vendor); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, vendor)
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid vendor ID", httpx.ErrValidation)
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) validate(v Vendor) error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("%w: vendor name is required", httpx.ErrValidation)
	}
	return nil
}
