package api

import (
	"net/http"
	"time"

	"melodia/internal/api/handler"
	"melodia/internal/api/middleware"
	"melodia/internal/app/service"
	"melodia/internal/common/security"
	"melodia/internal/platform/session"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RouterDeps collects everything the HTTP surface needs.
type RouterDeps struct {
	AuthService     *service.AuthService
	UserService     *service.UserService
	SongService     *service.SongService
	ArtistService   *service.ArtistService
	CategoryService *service.CategoryService
	PlaylistService *service.PlaylistService
	FavoriteService *service.FavoriteService
	AdminService    *service.AdminService
	Sessions        session.Store
	JWT             *security.JWTManager
	PublicDir       string
	Log             zerolog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Audio files are served statically; the player streams them directly.
	// No request timeout here, range requests stay open as long as the
	// client keeps reading.
	fileServer := http.StripPrefix("/public/", http.FileServer(http.Dir(deps.PublicDir)))
	r.Get("/public/*", fileServer.ServeHTTP)

	r.Route("/api", func(api chi.Router) {
		api.Use(chiMiddleware.Timeout(60 * time.Second))
		// Verifier only parses a token when one is present; route groups
		// below decide whether it is required.
		api.Use(deps.JWT.Verifier())

		authHandler := handler.NewAuthHandler(deps.AuthService)
		api.Route("/auth", func(auth chi.Router) {
			authHandler.RegisterRoutes(auth)
			auth.Group(func(protected chi.Router) {
				protected.Use(middleware.Authenticator)
				authHandler.RegisterProtectedRoutes(protected)
			})
		})

		audioHandler := handler.NewAudioHandler(deps.PublicDir)
		audioHandler.RegisterRoutes(api)

		// Catalog reads are public; the handlers guard their own mutation
		// routes with Authenticator plus AdminOnly.
		songHandler := handler.NewSongHandler(deps.SongService)
		api.Route("/songs", songHandler.RegisterRoutes)

		artistHandler := handler.NewArtistHandler(deps.ArtistService)
		api.Route("/artists", artistHandler.RegisterRoutes)

		categoryHandler := handler.NewCategoryHandler(deps.CategoryService)
		api.Route("/categories", categoryHandler.RegisterRoutes)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticator)

			userHandler := handler.NewUserHandler(deps.UserService, deps.AuthService)
			protected.Route("/user", userHandler.RegisterRoutes)

			playlistHandler := handler.NewPlaylistHandler(deps.PlaylistService)
			protected.Route("/playlists", playlistHandler.RegisterRoutes)

			favoriteHandler := handler.NewFavoriteHandler(deps.FavoriteService)
			protected.Route("/favorites", favoriteHandler.RegisterRoutes)
		})
	})

	// Server-rendered panel, cookie sessions instead of bearer tokens.
	adminHandler := handler.NewAdminHandler(
		deps.AdminService, deps.SongService, deps.ArtistService,
		deps.CategoryService, deps.Sessions, deps.Log)
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(chiMiddleware.Timeout(60 * time.Second))
		adminHandler.RegisterRoutes(admin)
	})

	return r
}
