package routes

import (
	"net/http"

	"github.com/commutelog/api/internal/app"
	"github.com/commutelog/api/internal/config"
	"github.com/commutelog/api/internal/handler"
	"github.com/commutelog/api/internal/middleware"
	"github.com/commutelog/api/internal/storage"
	"github.com/commutelog/api/internal/validation"
)

func SetupRoutes(app *app.App) http.Handler {
	images := validation.ImageConstraints(app.Cfg.UploadMaxSize)

	// Handlers
	users := handler.NewUserHandler(app.UserService, app.FileService, images)
	commutes := handler.NewCommuteHandler(app.CommuteService, app.FileService, images)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// Uploaded files (S3 serves its own URLs)
	if app.Cfg.StorageDriver != config.StorageS3 {
		mux.Handle("GET "+storage.URLPrefix, http.StripPrefix(storage.URLPrefix, http.FileServer(http.Dir(app.Cfg.UploadDir))))
	}

	mux.HandleFunc("GET /healthz", health.Check)

	// Users
	mux.HandleFunc("GET /users", users.List)
	mux.HandleFunc("GET /users/{id}", users.Get)
	mux.HandleFunc("POST /users", users.Create)
	mux.HandleFunc("PUT /users/{id}", users.Update)
	mux.HandleFunc("DELETE /users/{id}", users.Delete)
	mux.HandleFunc("POST /users/{id}/avatar", users.UploadAvatar)

	// Login (rate limited per client IP)
	loginLimit := middleware.RateLimit(app.Cfg.LoginRateLimit, app.Cfg.LoginRateWindow, app.Cfg.TrustProxy)
	mux.HandleFunc("POST /login", loginLimit(users.Login))

	// Commutes, scoped by user_id
	mux.HandleFunc("GET /commutes", commutes.List)
	mux.HandleFunc("GET /commutes/{id}", commutes.Get)
	mux.HandleFunc("POST /commutes", commutes.Create)
	mux.HandleFunc("PUT /commutes/{id}", commutes.Update)
	mux.HandleFunc("DELETE /commutes/{id}", commutes.Delete)
	mux.HandleFunc("POST /commutes/{id}/image", commutes.UploadImage)
	mux.HandleFunc("GET /commutes/{id}/image", commutes.Image)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.Recover,
	)
}
