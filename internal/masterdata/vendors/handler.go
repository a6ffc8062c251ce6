package vendors

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fitdesk/fitdesk/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/vendors", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.deactivate)
	})
}

type vendorForm struct {
	Name         string `json:"name" validate:"required,max=200"`
	ContactName  string `json:"contact_name" validate:"max=200"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"max=40"`
	Category     string `json:"category" validate:"max=100"`
	PaymentTerms string `json:"payment_terms" validate:"max=100"`
	Active       bool   `json:"active"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	items, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if items == nil {
		items = []Vendor{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid vendor id")
		return
	}
	vendor, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendor)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form vendorForm
	if !h.decodeAndValidate(w, r, &form) {
		return
	}
	vendor, err := h.service.Create(r.Context(), Vendor{
		Name: form.Name, ContactName: form.ContactName, Email: form.Email, Phone: form.Phone,
		Category: form.Category, PaymentTerms: form.PaymentTerms, Active: form.Active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, vendor)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid vendor id")
		return
	}
	var form vendorForm
	if !h.decodeAndValidate(w, r, &form) {
		return
	}
	err = h.service.Update(r.Context(), id, Vendor{
		Name: form.Name, ContactName: form.ContactName, Email: form.Email, Phone: form.Phone,
		Category: form.Category, PaymentTerms: form.PaymentTerms, Active: form.Active,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	vendor, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendor)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid vendor id")
		return
	}
	if err := h.service.Deactivate(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
	if errors.Is(err, httpx.ErrNotFound) || errors.Is(err, httpx.ErrDuplicate) || errors.Is(err, httpx.ErrValidation) {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Error("vendors request failed", slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
