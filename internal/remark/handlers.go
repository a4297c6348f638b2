package remark

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

type CreateRequest struct {
	EquipmentID string `json:"equipmentId" validate:"required,uuid4"`
	Type        string `json:"remarkType" validate:"required,oneof=damage malfunction decommission general issue"`
	Description string `json:"description" validate:"required,max=4000"`
	Severity    string `json:"severity" validate:"omitempty,oneof=low medium high critical"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())

	var req CreateRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	var sev *Severity
	if req.Severity != "" {
		s := Severity(req.Severity)
		sev = &s
	}

	rm, err := h.Repo.Create(r.Context(), CreateParams{
		EquipmentID: req.EquipmentID,
		Type:        Type(req.Type),
		Description: req.Description,
		Severity:    sev,
		ReportedBy:  actor.ID,
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to create remark")
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"remark": rm})
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilter{
		EquipmentID: q.Get("equipment_id"),
		Type:        q.Get("remark_type"),
	}
	// Mounted both standalone and under /equipment/{id}/remarks.
	if id := chi.URLParam(r, "id"); id != "" {
		f.EquipmentID = id
	}
	if f.Type != "" {
		if _, err := ParseType(f.Type); err != nil {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid remark type filter")
			return
		}
	}
	if v := q.Get("resolved"); v != "" {
		resolved := v == "true"
		f.Resolved = &resolved
	}

	remarks, err := h.Repo.List(r.Context(), f)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if remarks == nil {
		remarks = []Remark{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"remarks": remarks})
}

func (h Handlers) Resolve(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	rm, err := h.Repo.Resolve(r.Context(), id, actor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "remark not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to resolve remark")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"remark": rm})
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "remark not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to delete remark")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
