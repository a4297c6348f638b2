package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labkit/internal/api"
	"labkit/internal/audit"
	"labkit/internal/equipment"
	"labkit/pkg/db"
)

type Handlers struct {
	DB       *pgxpool.Pool
	Bookings *Repository
}

var (
	errEquipmentNotFound = errors.New("equipment not found")
	errBookingNotFound   = errors.New("booking not found")
	errNotBookable       = errors.New("equipment is not bookable")
	errUnavailable       = errors.New("equipment is not available")
	errConflict          = errors.New("time slot conflicts with an existing booking")
	errForbidden         = errors.New("not authorized for this booking")
	errInvalidState      = errors.New("booking status does not permit this action")
	errPastBooking       = errors.New("cannot modify a booking that has started")
)

func writeBookingError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, errEquipmentNotFound):
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, err.Error())
	case errors.Is(err, errBookingNotFound):
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, err.Error())
	case errors.Is(err, errNotBookable):
		api.WriteError(w, http.StatusBadRequest, api.CodeNotBookable, err.Error())
	case errors.Is(err, errUnavailable):
		api.WriteError(w, http.StatusBadRequest, api.CodeUnavailable, err.Error())
	case errors.Is(err, errConflict):
		api.WriteError(w, http.StatusConflict, api.CodeConflict, err.Error())
	case errors.Is(err, errForbidden):
		api.WriteError(w, http.StatusForbidden, api.CodeForbidden, err.Error())
	case errors.Is(err, errInvalidState), errors.Is(err, errPastBooking):
		api.WriteError(w, http.StatusBadRequest, api.CodeInvalidState, err.Error())
	default:
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}
	return true
}

type CreateRequest struct {
	EquipmentID string    `json:"equipmentId" validate:"required,uuid4"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required"`
	Purpose     string    `json:"purpose" validate:"max=2000"`
}

// Create checks the preconditions in order (equipment exists, bookable,
// active, no conflict) and inserts with status pending or confirmed depending
// on the equipment's approval flag. The whole sequence runs under the
// equipment row lock so two concurrent requests for the same slot cannot both
// pass the conflict check.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())

	var req CreateRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}
	if err := ValidateInterval(req.StartTime, req.EndTime); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	var (
		bookingID        string
		requiresApproval bool
	)
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		eq, err := equipment.GetForBooking(r.Context(), tx, req.EquipmentID)
		if err != nil {
			return errEquipmentNotFound
		}
		if !eq.IsBookable {
			return errNotBookable
		}
		if eq.Status != equipment.StatusActive {
			return errUnavailable
		}

		conflict, err := HasConflict(r.Context(), tx, req.EquipmentID, req.StartTime, req.EndTime, "")
		if err != nil {
			return err
		}
		if conflict {
			return errConflict
		}

		requiresApproval = eq.RequiresApproval
		status := StatusConfirmed
		if requiresApproval {
			status = StatusPending
		}

		bookingID, err = Insert(r.Context(), tx, req.EquipmentID, actor.ID, req.StartTime, req.EndTime, req.Purpose, status)
		if err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, &bookingID, "booking.create", map[string]any{
			"equipmentId": req.EquipmentID,
			"status":      status,
		})
	})
	if writeBookingError(w, err) {
		return
	}

	b, err := h.Bookings.GetByID(r.Context(), bookingID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{
		"booking":          b,
		"requiresApproval": requiresApproval,
	})
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilter{
		EquipmentID: q.Get("equipment_id"),
		UserID:      q.Get("user_id"),
		Status:      q.Get("status"),
	}
	if f.Status != "" {
		if _, err := ParseStatus(f.Status); err != nil {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid status filter")
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

	items, err := h.Bookings.List(r.Context(), f)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if items == nil {
		items = []Booking{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"bookings": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "booking not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"booking": b})
}

// Availability returns the confirmed bookings intersecting the requested
// window, for the calendar view.
func (h Handlers) Availability(w http.ResponseWriter, r *http.Request) {
	equipmentID := chi.URLParam(r, "id")

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "start is required (RFC3339)")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "end is required (RFC3339)")
		return
	}
	if err := ValidateInterval(start, end); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	slots, err := h.Bookings.Availability(r.Context(), equipmentID, start, end)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if slots == nil {
		slots = []Slot{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"bookings": slots})
}

type UpdateRequest struct {
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
	Purpose   *string   `json:"purpose" validate:"omitempty,max=2000"`
}

// Update moves an existing booking to a new interval. Owner or admin only;
// the booking must still be active and must not have started. The new
// interval is validated against the same pending+confirmed conflict set as
// creation, with the booking itself excluded.
func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req UpdateRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}
	if err := ValidateInterval(req.StartTime, req.EndTime); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return errBookingNotFound
		}
		if b.UserID != actor.ID && !actor.IsAdmin() {
			return errForbidden
		}
		if !b.Status.IsActive() {
			return errInvalidState
		}
		if b.StartTime.Before(time.Now()) {
			return errPastBooking
		}

		// Lock the equipment row first so concurrent creates serialize with us.
		if _, err := equipment.GetForBooking(r.Context(), tx, b.EquipmentID); err != nil {
			return errEquipmentNotFound
		}
		conflict, err := HasConflict(r.Context(), tx, b.EquipmentID, req.StartTime, req.EndTime, b.ID)
		if err != nil {
			return err
		}
		if conflict {
			return errConflict
		}

		if err := UpdateInterval(r.Context(), tx, b.ID, req.StartTime, req.EndTime, req.Purpose); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, &b.ID, "booking.update", map[string]any{
			"startTime": req.StartTime,
			"endTime":   req.EndTime,
		})
	})
	if writeBookingError(w, err) {
		return
	}

	b, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"booking": b})
}

type StatusRequest struct {
	Status     string `json:"status" validate:"required,oneof=confirmed rejected completed"`
	AdminNotes string `json:"adminNotes" validate:"max=2000"`
}

// PatchStatus applies an admin decision: pending -> confirmed|rejected, or
// confirmed -> completed. Confirming re-runs the conflict check in case
// another booking was confirmed for an overlapping slot since this one was
// requested.
func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req StatusRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}
	next, err := ParseStatus(req.Status)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid status")
		return
	}

	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return errBookingNotFound
		}
		if !CanTransition(b.Status, next) {
			return errInvalidState
		}

		switch next {
		case StatusConfirmed:
			if _, err := equipment.GetForBooking(r.Context(), tx, b.EquipmentID); err != nil {
				return errEquipmentNotFound
			}
			conflict, err := HasConflict(r.Context(), tx, b.EquipmentID, b.StartTime, b.EndTime, b.ID)
			if err != nil {
				return err
			}
			if conflict {
				return errConflict
			}
			if err := SetDecision(r.Context(), tx, b.ID, StatusConfirmed, actor.ID, req.AdminNotes); err != nil {
				return err
			}
		case StatusRejected:
			if err := SetDecision(r.Context(), tx, b.ID, StatusRejected, actor.ID, req.AdminNotes); err != nil {
				return err
			}
		case StatusCompleted:
			if err := SetCompleted(r.Context(), tx, b.ID, req.AdminNotes); err != nil {
				return err
			}
		}
		return audit.Insert(r.Context(), tx, actor.ID, &b.ID, "booking.status", map[string]any{
			"from": b.Status,
			"to":   next,
		})
	})
	if writeBookingError(w, err) {
		return
	}

	b, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"booking": b})
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

// Cancel soft-cancels a booking: the row is kept, the slot is freed. Owner or
// admin only.
func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req CancelRequest
	if r.ContentLength > 0 {
		if err := api.DecodeValid(r, &req); err != nil {
			api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
			return
		}
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return errBookingNotFound
		}
		if b.UserID != actor.ID && !actor.IsAdmin() {
			return errForbidden
		}
		if !CanTransition(b.Status, StatusCancelled) {
			return errInvalidState
		}
		if err := SetCancelled(r.Context(), tx, b.ID, req.Reason); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, &b.ID, "booking.cancel", nil)
	})
	if writeBookingError(w, err) {
		return
	}

	b, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"booking": b})
}
