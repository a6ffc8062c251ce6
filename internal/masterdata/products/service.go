package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/fitdesk/fitdesk/internal/masterdata/shared"
	"github.com/fitdesk/fitdesk/internal/platform/httpx"
)

// Advisory flags a non-blocking concern on a saved product.
type Advisory struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const AdvisoryCostAbovePrice = "COST_ABOVE_PRICE"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create persists a product with a generated SKU and zero stock at every
// location. Returns a cost-above-price advisory when the margin is negative.
func (s *Service) Create(ctx context.Context, product Product) (Product, []Advisory, error) {
	if err := s.validate(product); err != nil {
		return Product{}, nil, err
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, nil, err
	}
	return created, costAdvisories(created), nil
}

// Update changes everything except the SKU, which is immutable after create.
func (s *Service) Update(ctx context.Context, id int64, product Product) ([]Advisory, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid product ID", httpx.ErrValidation)
	}
	if err := s.validate(product); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, product); err != nil {
		return nil, err
	}
	return costAdvisories(product), nil
}

// Deactivate is the soft delete: the row stays for historical reorder rows.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product ID", httpx.ErrValidation)
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) Activate(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product ID", httpx.ErrValidation)
	}
	return s.repo.SetActive(ctx, id, true)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, category Category) (Category, error) {
	category.Code = strings.ToUpper(strings.TrimSpace(category.Code))
	if category.Code == "" {
		return Category{}, fmt.Errorf("%w: category code is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(category.Name) == "" {
		return Category{}, fmt.Errorf("%w: category name is required", httpx.ErrValidation)
	}
	return s.repo.CreateCategory(ctx, category)
}

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", httpx.ErrValidation)
	}
	if p.CategoryID <= 0 {
		return fmt.Errorf("%w: category is required", httpx.ErrValidation)
	}
	if p.Price < 0 || p.CostPrice < 0 {
		return fmt.Errorf("%w: prices cannot be negative", httpx.ErrValidation)
	}
	if p.ReorderPoint < 0 || p.ReorderQty < 0 {
		return fmt.Errorf("%w: reorder thresholds cannot be negative", httpx.ErrValidation)
	}
	return nil
}

func costAdvisories(p Product) []Advisory {
	if p.CostPrice <= p.Price {
		return nil
	}
	return []Advisory{{
		Code:    AdvisoryCostAbovePrice,
		Message: fmt.Sprintf("cost price %.2f exceeds selling price %.2f for %s", p.CostPrice, p.Price, p.SKU),
	}}
}
