package audit

import (
	"net/http"
	"strconv"

	"labkit/internal/api"
)

type Handlers struct {
	Repo *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.Repo.List(r.Context(), limit)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
