package category

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"labkit/internal/api"
)

type Handlers struct {
	Repo *Repository
}

type UpsertRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if categories == nil {
		categories = []Category{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	c, err := h.Repo.Create(r.Context(), req.Name, req.Description, req.Color)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to create category")
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"category": c})
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpsertRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	c, err := h.Repo.Update(r.Context(), id, req.Name, req.Description, req.Color)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "category not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to update category")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"category": c})
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "category not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to delete category")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
