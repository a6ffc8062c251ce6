package products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fitdesk/fitdesk/internal/masterdata/shared"
	"github.com/fitdesk/fitdesk/internal/platform/httpx"
)

type memoryRepo struct {
	products   map[int64]Product
	categories map[int64]Category
	seq        map[string]int64
	nextID     int64
	nextCatID  int64
	stockRows  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products:   map[int64]Product{},
		categories: map[int64]Category{},
		seq:        map[string]int64{},
	}
}

func (r *memoryRepo) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	var items []Product
	for _, p := range r.products {
		if filters.IsActive != nil && p.Active != *filters.IsActive {
			continue
		}
		items = append(items, p)
	}
	return items, len(items), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: product %d", httpx.ErrNotFound, id)
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, product Product) (Product, error) {
	category, err := r.GetCategory(ctx, product.CategoryID)
	if err != nil {
		return Product{}, err
	}
	r.seq[category.Code]++
	product.SKU = fmt.Sprintf("%s-%04d", category.Code, r.seq[category.Code])
	r.nextID++
	product.ID = r.nextID
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = product
	r.stockRows++
	return product, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, product Product) error {
	existing, ok := r.products[id]
	if !ok {
		return fmt.Errorf("%w: product %d", httpx.ErrNotFound, id)
	}
	product.ID = id
	product.SKU = existing.SKU
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.products[id] = product
	return nil
}

func (r *memoryRepo) SetActive(ctx context.Context, id int64, active bool) error {
	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("%w: product %d", httpx.ErrNotFound, id)
	}
	p.Active = active
	r.products[id] = p
	return nil
}

func (r *memoryRepo) ListCategories(ctx context.Context) ([]Category, error) {
	var items []Category
	for _, c := range r.categories {
		items = append(items, c)
	}
	return items, nil
}

func (r *memoryRepo) GetCategory(ctx context.Context, id int64) (Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return Category{}, fmt.Errorf("%w: category %d", httpx.ErrNotFound, id)
	}
	return c, nil
}

func (r *memoryRepo) CreateCategory(ctx context.Context, category Category) (Category, error) {
	for _, c := range r.categories {
		if c.Code == category.Code {
			return Category{}, fmt.Errorf("%w: category code", httpx.ErrDuplicate)
		}
	}
	r.nextCatID++
	category.ID = r.nextCatID
	r.categories[category.ID] = category
	return category, nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo, Category) {
	t.Helper()
	repo := newMemoryRepo()
	svc := NewService(repo)
	category, err := svc.CreateCategory(context.Background(), Category{Code: "sup", Name: "Supplements"})
	require.NoError(t, err)
	return svc, repo, category
}

func TestCreateCategoryNormalizesCode(t *testing.T) {
	_, _, category := newTestService(t)
	require.Equal(t, "SUP", category.Code)
}

func TestCreateProductGeneratesSequentialSKU(t *testing.T) {
	svc, repo, category := newTestService(t)
	ctx := context.Background()

	first, advisories, err := svc.Create(ctx, Product{Name: "Whey Protein 2kg", CategoryID: category.ID, Price: 45, CostPrice: 28, Active: true})
	require.NoError(t, err)
	require.Equal(t, "SUP-0001", first.SKU)
	require.Empty(t, advisories)

	second, _, err := svc.Create(ctx, Product{Name: "Creatine 500g", CategoryID: category.ID, Price: 20, CostPrice: 9, Active: true})
	require.NoError(t, err)
	require.Equal(t, "SUP-0002", second.SKU)

	// One stock backfill per created product.
	require.Equal(t, 2, repo.stockRows)
}

func TestCreateProductCostAbovePriceAdvisory(t *testing.T) {
	svc, _, category := newTestService(t)

	_, advisories, err := svc.Create(context.Background(), Product{Name: "Branded Towel", CategoryID: category.ID, Price: 8, CostPrice: 12, Active: true})
	require.NoError(t, err)
	require.Len(t, advisories, 1)
	require.Equal(t, AdvisoryCostAbovePrice, advisories[0].Code)
}

func TestUpdateKeepsSKU(t *testing.T) {
	svc, _, category := newTestService(t)
	ctx := context.Background()

	created, _, err := svc.Create(ctx, Product{Name: "Whey Protein 2kg", CategoryID: category.ID, Price: 45, CostPrice: 28, Active: true})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, Product{Name: "Whey Protein 2.2kg", CategoryID: category.ID, Price: 49, CostPrice: 30, Active: true})
	require.NoError(t, err)

	updated, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.SKU, updated.SKU)
	require.Equal(t, "Whey Protein 2.2kg", updated.Name)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, category := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, Product{Name: "  ", CategoryID: category.ID})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, _, err = svc.Create(ctx, Product{Name: "Bar", CategoryID: category.ID, Price: -1})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, _, err = svc.Create(ctx, Product{Name: "Bar", CategoryID: 999})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeactivateIsSoftDelete(t *testing.T) {
	svc, _, category := newTestService(t)
	ctx := context.Background()

	created, _, err := svc.Create(ctx, Product{Name: "Whey Protein 2kg", CategoryID: category.ID, Price: 45, CostPrice: 28, Active: true})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, created.ID))
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, got.Active)

	require.NoError(t, svc.Activate(ctx, created.ID))
	got, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, got.Active)
}
