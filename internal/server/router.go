// Package server assembles the HTTP router.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bloglist/bloglist-go/internal/handler"
	"github.com/bloglist/bloglist-go/internal/middleware"
)

// Deps are the services the router dispatches to.
type Deps struct {
	Users handler.UserService
	Blogs handler.BlogService
	Auth  middleware.Authenticator

	// AllowedOrigins are the CORS origins. Empty allows any origin.
	AllowedOrigins []string
}

// NewRouter returns the API handler. Only blog creation and deletion run
// behind the token gate.
func NewRouter(deps Deps, logger *slog.Logger) http.Handler {
	authHandler := handler.NewAuthHandler(deps.Users, logger)
	userHandler := handler.NewUserHandler(deps.Users, logger)
	blogHandler := handler.NewBlogHandler(deps.Blogs, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(corsHandler(deps.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "unknown endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/api/login", authHandler.HandleLogin)

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", userHandler.HandleList)
		r.Post("/", authHandler.HandleRegister)
		r.Get("/{id}", userHandler.HandleGet)
	})

	r.Route("/api/blogs", func(r chi.Router) {
		r.Get("/", blogHandler.HandleList)
		r.Get("/stats", blogHandler.HandleStats)
		r.Get("/{id}", blogHandler.HandleGet)
		r.Put("/{id}", blogHandler.HandleUpdate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(deps.Auth, logger))
			r.Post("/", blogHandler.HandleCreate)
			r.Delete("/{id}", blogHandler.HandleDelete)
		})
	})

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
