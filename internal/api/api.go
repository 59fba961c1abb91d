package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/combact-io/combact/internal/auth"
	"github.com/combact-io/combact/internal/config"
	"github.com/combact-io/combact/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Api struct {
	Config config.Config
	Store  database.StudentStore
	Tokens *auth.TokenManager
	Router *chi.Mux
}

func NewApi(cfg config.Config, store database.StudentStore) (*Api, error) {
	api := &Api{
		Config: cfg,
		Store:  store,
		Tokens: auth.NewTokenManager(cfg.SecretKey, time.Duration(cfg.TokenTTL)*time.Second),
		Router: chi.NewRouter(),
	}

	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	// All origins are allowed; clients send Content-Type and Authorization.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeGenericError(w, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeGenericError(w, http.StatusMethodNotAllowed)
	})

	// Public routes
	r.Get("/", api.IndexHandler)
	r.Get("/heartbeat", api.Heartbeat)
	r.Post("/register", api.RegisterHandler)
	r.Post("/login", api.LoginHandler)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(api.Tokens))
		r.Get("/student", api.GetStudentHandler)
		r.Get("/lessons/{lessonID}/mark", api.MarkLessonHandler)
	})
}

func (api *Api) Serve() {
	log.Printf("Starting API server on 0.0.0.0:%d", api.Config.APIPort)
	log.Fatal(http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort), api.Router))
}

func (api *Api) Heartbeat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Recoverer converts panics into the generic 500 envelope instead of crashing
// the request goroutine.
func (api *Api) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic recovered: %v", rec)
				writeGenericError(w, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
