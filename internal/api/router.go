package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kidchores/kidchores-be/internal/api/handlers"
	"github.com/kidchores/kidchores-be/internal/auth"
	"github.com/kidchores/kidchores-be/internal/database"
	"github.com/kidchores/kidchores-be/internal/models"
	"github.com/kidchores/kidchores-be/internal/services"
	"github.com/kidchores/kidchores-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router. When the startup
// schema verification failed, every data-dependent route is wrapped by a
// gate answering 503 so the process stays up for operators without serving
// from a drifted schema.
func NewRouter(
	allowedOrigins []string,
	tokens *auth.TokenService,
	userService services.UserServiceProvider,
	taskService services.TaskServiceProvider,
	hub *websocket.Hub,
	verification database.Result,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens, hub)
	taskHandler := handlers.NewTaskHandler(taskService, hub)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/data", func(r chi.Router) {
		r.Use(schemaGate(verification))

		// Public routes: existence probe and login.
		r.Get("/checkuser/{username}", userHandler.CheckUser)
		r.Post("/authorize", userHandler.Authorize)

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())

			r.Get("/categories", taskHandler.Categories)
			r.Get("/daily/{user}/{datecode}", taskHandler.Daily)
			r.Post("/completedtasks", taskHandler.GetCompleted)
			r.Post("/updatecompleted", taskHandler.UpdateCompleted)

			// Account management is parent-only.
			r.Group(func(r chi.Router) {
				r.Use(handlers.RequireParent)
				r.Post("/newuser", userHandler.NewUser)
				r.Post("/updateuser", userHandler.UpdateUser)
			})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(schemaGate(verification))
		r.Use(tokens.Middleware())
		r.Get("/ws", wsHandler.Serve)
	})

	return r
}

// schemaGate refuses data routes while the schema is known to have
// drifted. The discrepancy list was already logged at startup.
func schemaGate(verification database.Result) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !verification.Valid() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"error": models.ErrSchemaInvalid.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
