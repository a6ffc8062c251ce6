package products

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fitdesk/fitdesk/internal/masterdata/shared"
	"github.com/fitdesk/fitdesk/internal/platform/httpx"
)

// Handler manages product and category endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.deactivate)
		r.Put("/{id}/activate", h.activate)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
	})
}

type productForm struct {
	Name         string  `json:"name" validate:"required,max=200"`
	CategoryID   int64   `json:"category_id" validate:"required,gt=0"`
	Price        float64 `json:"price" validate:"gte=0"`
	CostPrice    float64 `json:"cost_price" validate:"gte=0"`
	ReorderPoint int64   `json:"reorder_point" validate:"gte=0"`
	ReorderQty   int64   `json:"reorder_qty" validate:"gte=0"`
	Active       bool    `json:"active"`
}

type categoryForm struct {
	Code string `json:"code" validate:"required,alphanum,max=10"`
	Name string `json:"name" validate:"required,max=120"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := listFiltersFromQuery(r)
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if items == nil {
		items = []Product{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
		"page":  filters.Page,
		"limit": filters.Limit,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form productForm
	if !h.decodeAndValidate(w, r, &form) {
		return
	}
	product, advisories, err := h.service.Create(r.Context(), Product{
		Name:         form.Name,
		CategoryID:   form.CategoryID,
		Price:        form.Price,
		CostPrice:    form.CostPrice,
		ReorderPoint: form.ReorderPoint,
		ReorderQty:   form.ReorderQty,
		Active:       form.Active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"product":  product,
		"warnings": advisories,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	var form productForm
	if !h.decodeAndValidate(w, r, &form) {
		return
	}
	advisories, err := h.service.Update(r.Context(), id, Product{
		Name:         form.Name,
		CategoryID:   form.CategoryID,
		Price:        form.Price,
		CostPrice:    form.CostPrice,
		ReorderPoint: form.ReorderPoint,
		ReorderQty:   form.ReorderQty,
		Active:       form.Active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"product":  product,
		"warnings": advisories,
	})
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	if err := h.service.Deactivate(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	if err := h.service.Activate(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if categories == nil {
		categories = []Category{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": categories})
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var form categoryForm
	if !h.decodeAndValidate(w, r, &form) {
		return
	}
	category, err := h.service.CreateCategory(r.Context(), Category{Code: form.Code, Name: form.Name})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, form any) bool {
	if err := httpx.DecodeJSON(r, form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return false
	}
	if err := h.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]httpx.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, httpx.FieldError{Field: fe.Field(), Message: fe.Tag()})
			}
			httpx.ValidationProblem(w, fields)
			return false
		}
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, httpx.ErrNotFound) || errors.Is(err, httpx.ErrDuplicate) || errors.Is(err, httpx.ErrValidation) || errors.Is(err, httpx.ErrConflict) {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Error("products request failed", slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func listFiltersFromQuery(r *http.Request) shared.ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	filters := shared.ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  q.Get("search"),
		SortBy:  q.Get("sort"),
		SortDir: q.Get("dir"),
	}
	if v := q.Get("category_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.CategoryID = &id
		}
	}
	if v := q.Get("active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}
	filters.Normalize()
	return filters
}
