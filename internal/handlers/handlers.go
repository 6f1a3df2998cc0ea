package handlers

import (
	"SocialSphere/internal/config"
	"SocialSphere/internal/middleware"
	"SocialSphere/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	tokenService *service.TokenService,
	postService *service.PostService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	media := newMediaStore(config.MediaDir)

	// Handlers
	userHandler := NewUserHandler(userService, tokenService, media, logger)
	postHandler := NewPostHandler(postService, media, logger)

	r.Route("/api", func(r chi.Router) {
		// User routes
		r.Post("/users/register/", userHandler.Register)
		r.Post("/users/login/", userHandler.Login)
		r.Post("/users/token/refresh/", userHandler.Refresh)
		r.Get("/users/{username}/", userHandler.ByUsername)

		// Posts: чтение доступно анонимно
		r.Get("/posts/", postHandler.List)
		r.Get("/posts/{id}/", postHandler.Get)
		r.Get("/posts/{id}/comments/", postHandler.Comments)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/users/logout/", userHandler.Logout)
			r.Get("/users/profile/", userHandler.Profile)
			r.Patch("/users/profile/", userHandler.UpdateProfile)

			r.Post("/posts/", postHandler.Create)
			r.Patch("/posts/{id}/", postHandler.Update)
			r.Delete("/posts/{id}/", postHandler.Delete)
			r.Post("/posts/{id}/like/", postHandler.Like)
			r.Post("/posts/{id}/comments/", postHandler.AddComment)
			r.Patch("/posts/comments/{id}/", postHandler.UpdateComment)
			r.Delete("/posts/comments/{id}/", postHandler.DeleteComment)
		})
	})

	// загруженные картинки и аватары
	r.Handle(mediaPrefix+"*", http.StripPrefix(mediaPrefix, http.FileServer(http.Dir(config.MediaDir))))

	return &Handler{Router: r}
}
