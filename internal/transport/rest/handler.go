// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/productcache/internal/errors"
	"github.com/abgdnv/productcache/internal/service"
	"github.com/abgdnv/productcache/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new product Handler backed by the given service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: web.NewValidator(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product resource.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/product", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Put("/", h.Update)
		r.Get("/{id}", h.FindByID)
		r.Delete("/{id}", h.DeleteByID)
	})
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, h.logger, http.StatusNotFound, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var createDto service.ProductCreateDto
	if !h.decodeAndValidate(w, r, &createDto) {
		return
	}

	created, err := h.service.Create(r.Context(), createDto)
	if err != nil {
		if h.respondValidation(w, r, err) {
			return
		}
		h.logger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", *created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// Update replaces name and price of the product identified by the id in the body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto service.ProductDto
	if !h.decodeAndValidate(w, r, &dto) {
		return
	}

	updated, err := h.service.Update(r.Context(), dto)
	if err != nil {
		if h.respondValidation(w, r, err) {
			return
		}
		if errors.Is(err, perrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "Product not found for update", "ID", *dto.ID)
			web.RespondError(w, h.logger, http.StatusNotFound, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "Error updating product", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to update product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", *updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, h.logger, http.StatusNotFound, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %d", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// decodeAndValidate reads the JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports whether the handler may continue.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		if fieldErrors, ok := web.FieldErrors(err); ok {
			h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", fieldErrors)
			web.RespondValidationErrors(w, h.logger, fieldErrors)
			return false
		}
		h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondValidation maps a ValidationError from the service to a 400 response.
func (h *Handler) respondValidation(w http.ResponseWriter, r *http.Request, err error) bool {
	var validationErr *perrors.ValidationError
	if !errors.As(err, &validationErr) {
		return false
	}
	h.logger.WarnContext(r.Context(), "Validation errors occurred", "field", validationErr.Field, "reason", validationErr.Reason)
	web.RespondValidationErrors(w, h.logger, map[string]string{validationErr.Field: validationErr.Reason})
	return true
}
