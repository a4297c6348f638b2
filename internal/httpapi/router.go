package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labkit/internal/api"
	"labkit/internal/audit"
	"labkit/internal/booking"
	"labkit/internal/category"
	"labkit/internal/equipment"
	"labkit/internal/maintenance"
	"labkit/internal/remark"
	"labkit/internal/user"
	"labkit/pkg/config"
)

type Dependencies struct {
	Cfg config.Config
	DB  *pgxpool.Pool
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	userRepo := user.NewRepository(deps.DB)
	userHandlers := user.Handlers{DB: deps.DB, Users: userRepo}
	equipmentRepo := equipment.NewRepository(deps.DB)
	equipmentHandlers := equipment.Handlers{DB: deps.DB, Repo: equipmentRepo}
	bookingRepo := booking.NewRepository(deps.DB)
	bookingHandlers := booking.Handlers{DB: deps.DB, Bookings: bookingRepo}
	categoryHandlers := category.Handlers{Repo: category.NewRepository(deps.DB)}
	maintenanceHandlers := maintenance.Handlers{Repo: maintenance.NewRepository(deps.DB)}
	remarkHandlers := remark.Handlers{Repo: remark.NewRepository(deps.DB)}
	auditHandlers := audit.Handlers{Repo: audit.NewRepository(deps.DB)}

	r.Route("/v1", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.WebAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAgeSeconds:  600,
		}))
		r.Use(api.Authenticate(deps.Cfg, userRepo))

		// Equipment registry
		r.Get("/equipment", equipmentHandlers.List)
		r.Get("/equipment/{id}", equipmentHandlers.Get)
		r.Get("/equipment/{id}/availability", bookingHandlers.Availability)
		r.Get("/equipment/{id}/maintenance", maintenanceHandlers.List)
		r.Get("/equipment/{id}/remarks", remarkHandlers.List)

		// Booking ledger
		r.Get("/bookings", bookingHandlers.List)
		r.Get("/bookings/{id}", bookingHandlers.Get)
		r.Post("/bookings", bookingHandlers.Create)
		r.Put("/bookings/{id}", bookingHandlers.Update)
		r.Patch("/bookings/{id}/cancel", bookingHandlers.Cancel)

		// Categories and remarks readable/writable by any member
		r.Get("/categories", categoryHandlers.List)
		r.Get("/maintenance", maintenanceHandlers.List)
		r.Get("/remarks", remarkHandlers.List)
		r.Post("/remarks", remarkHandlers.Create)

		// Admin-only surface
		r.Group(func(r chi.Router) {
			r.Use(api.RequireAdmin)

			r.Post("/equipment", equipmentHandlers.Create)
			r.Put("/equipment/{id}", equipmentHandlers.Update)
			r.Delete("/equipment/{id}", equipmentHandlers.Delete)

			r.Patch("/bookings/{id}/status", bookingHandlers.PatchStatus)

			r.Post("/categories", categoryHandlers.Create)
			r.Put("/categories/{id}", categoryHandlers.Update)
			r.Delete("/categories/{id}", categoryHandlers.Delete)

			r.Post("/maintenance", maintenanceHandlers.Create)
			r.Put("/maintenance/{id}", maintenanceHandlers.Update)
			r.Delete("/maintenance/{id}", maintenanceHandlers.Delete)

			r.Patch("/remarks/{id}/resolve", remarkHandlers.Resolve)
			r.Delete("/remarks/{id}", remarkHandlers.Delete)

			r.Get("/users", userHandlers.List)
			r.Get("/users/pending", userHandlers.ListPending)
			r.Post("/users/approve", userHandlers.Approve)
			r.Post("/users/reject", userHandlers.Reject)
			r.Post("/users/promote", userHandlers.Promote)
			r.Post("/users/demote", userHandlers.Demote)
			r.Post("/users/activate", userHandlers.Activate)
			r.Post("/users/deactivate", userHandlers.Deactivate)

			r.Get("/audit", auditHandlers.List)
		})
	})

	return r
}
