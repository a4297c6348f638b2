package user

import (
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labkit/internal/api"
	"labkit/internal/audit"
	"labkit/pkg/db"
)

type Handlers struct {
	DB    *pgxpool.Pool
	Users *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if users == nil {
		users = []User{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h Handlers) ListPending(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListPending(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if users == nil {
		users = []User{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

type UserActionRequest struct {
	UserID string `json:"userId" validate:"required,uuid4"`
}

func (h Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())

	var req UserActionRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "valid userId is required")
		return
	}

	var updated *User
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		u, err := GetForUpdate(r.Context(), tx, req.UserID)
		if err != nil {
			return errNotFound
		}
		if u.ApprovalStatus == ApprovalApproved {
			return errAlreadyApproved
		}
		updated, err = SetApproval(r.Context(), tx, req.UserID, ApprovalApproved, &actor.ID)
		if err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, &req.UserID, "user.approve", nil)
	})
	if h.writeActionError(w, err) {
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (h Handlers) Reject(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())

	var req UserActionRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "valid userId is required")
		return
	}

	var updated *User
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		u, err := GetForUpdate(r.Context(), tx, req.UserID)
		if err != nil {
			return errNotFound
		}
		if u.ApprovalStatus == ApprovalRejected {
			return errAlreadyRejected
		}
		updated, err = SetApproval(r.Context(), tx, req.UserID, ApprovalRejected, nil)
		if err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, &req.UserID, "user.reject", nil)
	})
	if h.writeActionError(w, err) {
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (h Handlers) Promote(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())

	var req UserActionRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "valid userId is required")
		return
	}

	var updated *User
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		u, err := GetForUpdate(r.Context(), tx, req.UserID)
		if err != nil {
			return errNotFound
		}
		if u.ApprovalStatus != ApprovalApproved {
			return errNotApproved
		}
		if u.Role == RoleAdmin {
			return errAlreadyAdmin
		}
		updated, err = SetRole(r.Context(), tx, req.UserID, RoleAdmin)
		if err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, &req.UserID, "user.promote", nil)
	})
	if h.writeActionError(w, err) {
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (h Handlers) Demote(w http.ResponseWriter, r *http.Request) {
	actor := api.IdentityFromContext(r.Context())

	var req UserActionRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "valid userId is required")
		return
	}

	if req.UserID == actor.ID {
		api.WriteError(w, http.StatusBadRequest, api.CodeInvalidState, "you cannot demote yourself")
		return
	}

	var updated *User
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		u, err := GetForUpdate(r.Context(), tx, req.UserID)
		if err != nil {
			return errNotFound
		}
		if u.Role == RoleUser {
			return errAlreadyUser
		}
		updated, err = SetRole(r.Context(), tx, req.UserID, RoleUser)
		if err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, &req.UserID, "user.demote", nil)
	})
	if h.writeActionError(w, err) {
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (h Handlers) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "user.activate")
}

func (h Handlers) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "user.deactivate")
}

func (h Handlers) setActive(w http.ResponseWriter, r *http.Request, active bool, action string) {
	actor := api.IdentityFromContext(r.Context())

	var req UserActionRequest
	if err := api.DecodeValid(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "valid userId is required")
		return
	}

	if !active && req.UserID == actor.ID {
		api.WriteError(w, http.StatusBadRequest, api.CodeInvalidState, "you cannot deactivate yourself")
		return
	}

	var updated *User
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		if _, err := GetForUpdate(r.Context(), tx, req.UserID); err != nil {
			return errNotFound
		}
		var err error
		updated, err = SetActive(r.Context(), tx, req.UserID, active)
		if err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor.ID, &req.UserID, action, nil)
	})
	if h.writeActionError(w, err) {
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"user": updated})
}
