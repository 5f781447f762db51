package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers объединяет все хендлеры для сборки роутера
type Handlers struct {
	Auth      *AuthHandler
	Tasks     *TaskHandler
	Dashboard *DashboardHandler
	Users     *UserHandler
	Contact   *ContactHandler
}

func NewRouter(h Handlers, authn *Authenticator) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Get("/about", h.Contact.About)

		r.With(authn.Optional).Post("/contact", h.Contact.Submit)

		r.Group(func(r chi.Router) {
			r.Use(authn.Require)

			r.Post("/logout", h.Auth.Logout)
			r.Get("/user", h.Auth.Me)
			r.Get("/users", h.Users.List)
			r.Get("/dashboard", h.Dashboard.Index)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", h.Tasks.Create)
				r.Get("/", h.Tasks.List)
				r.Get("/{id}", h.Tasks.Get)
				r.Put("/{id}", h.Tasks.Update)
				r.Patch("/{id}", h.Tasks.Update)
				r.Delete("/{id}", h.Tasks.Delete)
			})
		})
	})

	return r
}
