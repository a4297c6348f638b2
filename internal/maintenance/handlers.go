package maintenance

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"labkit/internal/api"
)

type Handlers struct {
	Repo *Repository
}

type UpsertRequest struct {
	EquipmentID         string     `json:"equipmentId" validate:"required,uuid4"`
	Type                string     `json:"maintenanceType" validate:"required,oneof=routine repair calibration inspection other"`
	Description         string     `json:"description" validate:"required,max=4000"`
	PerformedDate       time.Time  `json:"performedDate" validate:"required"`
	Cost                *string    `json:"cost"`
	NextMaintenanceDate *time.Time `json:"nextMaintenanceDate"`
	Notes               string     `json:"notes" validate:"max=4000"`
}

func (req UpsertRequest) toParams(actorID string) (CreateParams, error) {
	var cost *decimal.Decimal
	if req.Cost != nil && *req.Cost != "" {
		d, err := decimal.NewFromString(*req.Cost)
		if err != nil || d.IsNegative() {
			return CreateParams{}, errors.New("cost must be a non-negative number")
		}
		cost = &d
	}
	return CreateParams{
		EquipmentID:         req.EquipmentID,
		Type:                Type(req.Type),
		Description:         req.Description,
		PerformedBy:         actorID,
		PerformedDate:       req.PerformedDate,
		Cost:                cost,
		NextMaintenanceDate: req.NextMaintenanceDate,
		Notes:               req.Notes,
	}, nil
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())

	var req UpsertRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}
	p, err := req.toParams(actor.ID)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	rec, err := h.Repo.Create(r.Context(), p)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to create maintenance record")
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"maintenance": rec})
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilter{
		EquipmentID: q.Get("equipment_id"),
		Type:        q.Get("maintenance_type"),
	}
	// Mounted both standalone and under /equipment/{id}/maintenance.
	if id := chi.URLParam(r, "id"); id != "" {
		f.EquipmentID = id
	}
	if f.Type != "" {
		if _, err := ParseType(f.Type); err != nil {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid maintenance type filter")
			return
		}
	}
	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "start must be RFC3339")
			return
		}
		f.RangeStart = &t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "end must be RFC3339")
			return
		}
		f.RangeEnd = &t
	}

	records, err := h.Repo.List(r.Context(), f)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if records == nil {
		records = []Record{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"maintenanceRecords": records})
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req UpsertRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}
	p, err := req.toParams(actor.ID)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	rec, err := h.Repo.Update(r.Context(), id, p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "maintenance record not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to update maintenance record")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"maintenance": rec})
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "maintenance record not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to delete maintenance record")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
