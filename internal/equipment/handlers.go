package equipment

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"labkit/internal/api"
	"labkit/pkg/db"
)

type Handlers struct {
	DB   *pgxpool.Pool
	Repo *Repository
}

var (
	errNotFound       = errors.New("equipment not found")
	errActiveBookings = errors.New("equipment has active bookings")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	f := ListFilter{
		CategoryID: r.URL.Query().Get("category"),
		Status:     r.URL.Query().Get("status"),
		Search:     r.URL.Query().Get("search"),
	}
	if f.Status != "" {
		if _, err := ParseStatus(f.Status); err != nil {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid status filter")
			return
		}
	}

	items, err := h.Repo.List(r.Context(), f)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if items == nil {
		items = []Equipment{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"equipment": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	e, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "equipment not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"equipment": e})
}

type UpsertRequest struct {
	Name             string  `json:"name" validate:"required"`
	CategoryID       *string `json:"categoryId" validate:"omitempty,uuid4"`
	Location         string  `json:"location"`
	ModelNumber      string  `json:"modelNumber"`
	SerialNumber     string  `json:"serialNumber"`
	PurchaseYear     *int    `json:"purchaseYear" validate:"omitempty,min=1900,max=2200"`
	PurchaseCost     *string `json:"purchaseCost"`
	Status           string  `json:"status" validate:"omitempty,oneof=active under_maintenance decommissioned reserved"`
	OperatingNotes   string  `json:"operatingNotes"`
	IsBookable       *bool   `json:"isBookable"`
	RequiresApproval *bool   `json:"requiresApproval"`
}

func (req UpsertRequest) toParams(actorID string) (CreateParams, error) {
	status := StatusActive
	if req.Status != "" {
		status = Status(req.Status)
	}

	var cost *decimal.Decimal
	if req.PurchaseCost != nil && *req.PurchaseCost != "" {
		d, err := decimal.NewFromString(*req.PurchaseCost)
		if err != nil || d.IsNegative() {
			return CreateParams{}, errors.New("purchaseCost must be a non-negative number")
		}
		cost = &d
	}

	bookable := true
	if req.IsBookable != nil {
		bookable = *req.IsBookable
	}
	approval := false
	if req.RequiresApproval != nil {
		approval = *req.RequiresApproval
	}

	return CreateParams{
		Name:             req.Name,
		CategoryID:       req.CategoryID,
		Location:         req.Location,
		ModelNumber:      req.ModelNumber,
		SerialNumber:     req.SerialNumber,
		PurchaseYear:     req.PurchaseYear,
		PurchaseCost:     cost,
		Status:           status,
		OperatingNotes:   req.OperatingNotes,
		IsBookable:       bookable,
		RequiresApproval: approval,
		CreatedBy:        actorID,
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

	e, err := h.Repo.Create(r.Context(), p)
	if err != nil {
		if isUniqueViolation(err) {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "serial number already exists")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to create equipment")
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"equipment": e})
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

	e, err := h.Repo.Update(r.Context(), id, p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "equipment not found")
			return
		}
		if isUniqueViolation(err) {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "serial number already exists")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to update equipment")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"equipment": e})
}

// Delete takes the equipment row lock before checking for active bookings, so
// a booking committing concurrently cannot slip in between the guard and the
// DELETE and be cascaded away.
func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		if _, err := GetForBooking(r.Context(), tx, id); err != nil {
			return errNotFound
		}
		n, err := ActiveBookingCount(r.Context(), tx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return errActiveBookings
		}
		return Delete(r.Context(), tx, id)
	})
	switch {
	case err == nil:
	case errors.Is(err, errNotFound):
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, err.Error())
		return
	case errors.Is(err, errActiveBookings):
		api.WriteError(w, http.StatusConflict, api.CodeInvalidState, err.Error())
		return
	default:
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to delete equipment")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
