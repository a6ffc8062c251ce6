package inventory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fitdesk/fitdesk/internal/platform/httpx"
	"github.com/fitdesk/fitdesk/internal/shared"
)

// Handler manages inventory endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reorders", func(r chi.Router) {
		r.Get("/", h.listReorders)
		r.Post("/", h.createReorder)
		r.Get("/stats", h.reorderStats)
		r.Get("/{id}", h.getReorder)
		r.Put("/{id}/approve", h.approveReorder)
		r.Put("/{id}/reject", h.rejectReorder)
		r.Put("/{id}/receive", h.receiveReorder)
	})
	r.Route("/stock", func(r chi.Router) {
		r.Get("/", h.getStock)
		r.Get("/low", h.listLowStock)
		r.Post("/adjust", h.adjustStock)
	})
}

type createReorderForm struct {
	ProductID   int64  `json:"product_id" validate:"required,gt=0"`
	LocationID  int64  `json:"location_id" validate:"required,gt=0"`
	VendorID    int64  `json:"vendor_id" validate:"omitempty,gt=0"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
	Notes       string `json:"notes" validate:"max=2000"`
	RequestedBy string `json:"requested_by" validate:"required,max=120"`
}

type approveForm struct {
	ApprovedBy string `json:"approved_by" validate:"required,max=120"`
}

type rejectForm struct {
	RejectedBy string `json:"rejected_by" validate:"required,max=120"`
	Reason     string `json:"reason" validate:"required,max=2000"`
}

type receiveForm struct {
	QuantityReceived int64 `json:"quantity_received" validate:"required,gt=0"`
}

type adjustStockForm struct {
	ProductID  int64  `json:"product_id" validate:"required,gt=0"`
	LocationID int64  `json:"location_id" validate:"required,gt=0"`
	Delta      int64  `json:"delta" validate:"required"`
	Reason     string `json:"reason" validate:"required,max=2000"`
	Actor      string `json:"actor" validate:"required,max=120"`
}

type reorderResponse struct {
	ID               int64      `json:"id"`
	Number           string     `json:"number"`
	ProductID        int64      `json:"product_id"`
	LocationID       int64      `json:"location_id"`
	VendorID         int64      `json:"vendor_id,omitempty"`
	Quantity         int64      `json:"quantity"`
	UnitCost         float64    `json:"unit_cost"`
	TotalCost        float64    `json:"total_cost"`
	Status           string     `json:"status"`
	RequestedBy      string     `json:"requested_by"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	QuantityReceived int64      `json:"quantity_received,omitempty"`
	ReceivedAt       *time.Time `json:"received_at,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	Warnings         []Advisory `json:"warnings,omitempty"`
}

func toReorderResponse(r ReorderRequest, warnings []Advisory) reorderResponse {
	resp := reorderResponse{
		ID:               r.ID,
		Number:           r.Number,
		ProductID:        r.ProductID,
		LocationID:       r.LocationID,
		VendorID:         r.VendorID,
		Quantity:         r.Quantity,
		UnitCost:         r.UnitCost,
		TotalCost:        r.TotalCost,
		Status:           string(r.Status),
		RequestedBy:      r.RequestedBy,
		ApprovedBy:       r.ApprovedBy,
		QuantityReceived: r.QuantityReceived,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		Warnings:         warnings,
	}
	if !r.ApprovedAt.IsZero() && r.ApprovedAt.Unix() != 0 {
		at := r.ApprovedAt
		resp.ApprovedAt = &at
	}
	if !r.ReceivedAt.IsZero() && r.ReceivedAt.Unix() != 0 {
		at := r.ReceivedAt
		resp.ReceivedAt = &at
	}
	return resp
}

func (h *Handler) createReorder(w http.ResponseWriter, r *http.Request) {
	var form createReorderForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if fields := h.validateForm(form); fields != nil {
		httpx.ValidationProblem(w, fields)
		return
	}
	result, err := h.service.CreateReorder(r.Context(), CreateReorderInput{
		ProductID:   form.ProductID,
		LocationID:  form.LocationID,
		VendorID:    form.VendorID,
		Quantity:    form.Quantity,
		Notes:       form.Notes,
		RequestedBy: form.RequestedBy,
	})
	if err != nil {
		h.respondError(w, "create reorder", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toReorderResponse(result.Request, result.Advisories))
}

func (h *Handler) approveReorder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var form approveForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if fields := h.validateForm(form); fields != nil {
		httpx.ValidationProblem(w, fields)
		return
	}
	if err := h.service.ApproveReorder(r.Context(), id, form.ApprovedBy); err != nil {
		h.respondError(w, "approve reorder", err)
		return
	}
	request, err := h.service.GetReorder(r.Context(), id)
	if err != nil {
		h.respondError(w, "approve reorder", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReorderResponse(request, nil))
}

func (h *Handler) rejectReorder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var form rejectForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if fields := h.validateForm(form); fields != nil {
		httpx.ValidationProblem(w, fields)
		return
	}
	if err := h.service.RejectReorder(r.Context(), id, form.RejectedBy, form.Reason); err != nil {
		h.respondError(w, "reject reorder", err)
		return
	}
	request, err := h.service.GetReorder(r.Context(), id)
	if err != nil {
		h.respondError(w, "reject reorder", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReorderResponse(request, nil))
}

func (h *Handler) receiveReorder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var form receiveForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if fields := h.validateForm(form); fields != nil {
		httpx.ValidationProblem(w, fields)
		return
	}
	result, err := h.service.ReceiveReorder(r.Context(), id, form.QuantityReceived)
	if err != nil {
		h.respondError(w, "receive reorder", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReorderResponse(result.Request, result.Advisories))
}

func (h *Handler) getReorder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	request, err := h.service.GetReorder(r.Context(), id)
	if err != nil {
		h.respondError(w, "get reorder", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReorderResponse(request, nil))
}

func (h *Handler) listReorders(w http.ResponseWriter, r *http.Request) {
	locationID, _ := strconv.ParseInt(r.URL.Query().Get("location_id"), 10, 64)
	filter := ReorderFilter{
		Status:     ReorderStatus(r.URL.Query().Get("status")),
		LocationID: locationID,
	}
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.DateFrom = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.DateTo = t.AddDate(0, 0, 1)
		}
	}
	items, err := h.service.ListReorders(r.Context(), filter)
	if err != nil {
		h.respondError(w, "list reorders", err)
		return
	}
	type listItem struct {
		reorderResponse
		ProductName  string `json:"product_name"`
		ProductSKU   string `json:"product_sku"`
		LocationName string `json:"location_name"`
		VendorName   string `json:"vendor_name,omitempty"`
	}
	out := make([]listItem, 0, len(items))
	for _, item := range items {
		out = append(out, listItem{
			reorderResponse: toReorderResponse(item.ReorderRequest, nil),
			ProductName:     item.ProductName,
			ProductSKU:      item.ProductSKU,
			LocationName:    item.LocationName,
			VendorName:      item.VendorName,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out, "total": len(out)})
}

func (h *Handler) reorderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.respondError(w, "reorder stats", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"pending_count":     stats.PendingCount,
		"pending_value":     stats.PendingValue,
		"received_last_7d":  stats.ReceivedLast7d,
		"total_requests":    stats.TotalRequests,
		"total_order_value": stats.TotalOrderValue,
	})
}

func (h *Handler) getStock(w http.ResponseWriter, r *http.Request) {
	productID, _ := strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
	locationID, _ := strconv.ParseInt(r.URL.Query().Get("location_id"), 10, 64)
	level, err := h.service.GetStockLevel(r.Context(), productID, locationID)
	if err != nil {
		h.respondError(w, "get stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"product_id":  level.ProductID,
		"location_id": level.LocationID,
		"quantity":    level.Quantity,
	})
}

func (h *Handler) listLowStock(w http.ResponseWriter, r *http.Request) {
	locationID, _ := strconv.ParseInt(r.URL.Query().Get("location_id"), 10, 64)
	items, err := h.service.ListLowStock(r.Context(), locationID)
	if err != nil {
		h.respondError(w, "list low stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var form adjustStockForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if fields := h.validateForm(form); fields != nil {
		httpx.ValidationProblem(w, fields)
		return
	}
	level, err := h.service.AdjustStock(r.Context(), AdjustStockInput{
		ProductID:  form.ProductID,
		LocationID: form.LocationID,
		Delta:      form.Delta,
		Reason:     form.Reason,
		Actor:      form.Actor,
	})
	if err != nil {
		h.respondError(w, "adjust stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"product_id":  level.ProductID,
		"location_id": level.LocationID,
		"quantity":    level.Quantity,
	})
}

func (h *Handler) validateForm(form any) []httpx.FieldError {
	err := h.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []httpx.FieldError{{Field: "body", Message: err.Error()}}
	}
	fields := make([]httpx.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, httpx.FieldError{Field: fe.Field(), Message: fe.Tag()})
	}
	return fields
}

func (h *Handler) respondError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Transition", err.Error())
	case errors.Is(err, ErrQuantityExceedsOrder):
		httpx.Problem(w, http.StatusBadRequest, "Quantity Exceeds Order", err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNegativeStock):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error(action, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
