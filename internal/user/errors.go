package user

import (
	"errors"
	"net/http"

	"labkit/internal/api"
)

var (
	errNotFound        = errors.New("user not found")
	errAlreadyApproved = errors.New("user is already approved")
	errAlreadyRejected = errors.New("user is already rejected")
	errNotApproved     = errors.New("user must be approved first")
	errAlreadyAdmin    = errors.New("user is already an admin")
	errAlreadyUser     = errors.New("user is already a regular user")
)

// writeActionError maps workflow errors onto the API envelope. Returns true
// when a response was written.
func (h Handlers) writeActionError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, errNotFound):
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "user not found")
	case errors.Is(err, errAlreadyApproved),
		errors.Is(err, errAlreadyRejected),
		errors.Is(err, errNotApproved),
		errors.Is(err, errAlreadyAdmin),
		errors.Is(err, errAlreadyUser):
		api.WriteError(w, http.StatusBadRequest, api.CodeInvalidState, err.Error())
	default:
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}
	return true
}
