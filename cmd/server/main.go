package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"melodia/internal/api"
	"melodia/internal/app/service"
	"melodia/internal/app/worker"
	"melodia/internal/common/security"
	"melodia/internal/domain/repository"
	"melodia/internal/platform/config"
	"melodia/internal/platform/database"
	"melodia/internal/platform/logger"
	"melodia/internal/platform/mail"
	"melodia/internal/platform/session"
	"melodia/internal/platform/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("configuration loaded")

	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("database ready")

	rdb, err := session.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()
	log.Info().Msg("redis connected")

	jwtManager := security.NewJWTManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.JWTExp, cfg.RefreshExp)
	sessions := session.NewRedisStore(rdb, cfg.SessionTTL)
	imageStore := storage.NewHTTPImageStore(cfg.ImageStoreURL, cfg.ImageStoreKey, cfg.ImageStoreFolder)
	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		AppName:  cfg.AppName,
		BaseURL:  cfg.BaseURL,
	})

	userRepo := repository.NewPgUserRepository(db)
	songRepo := repository.NewPgSongRepository(db)
	artistRepo := repository.NewPgArtistRepository(db)
	categoryRepo := repository.NewPgCategoryRepository(db)
	playlistRepo := repository.NewPgPlaylistRepository(db)
	favoriteRepo := repository.NewPgFavoriteRepository(db)
	adminRepo := repository.NewPgAdminRepository(db)

	authService := service.NewAuthService(userRepo, jwtManager, mailer, log)
	userService := service.NewUserService(userRepo, imageStore, log)
	songService := service.NewSongService(songRepo, adminRepo, log)
	artistService := service.NewArtistService(artistRepo, adminRepo, log)
	categoryService := service.NewCategoryService(categoryRepo, adminRepo, log)
	playlistService := service.NewPlaylistService(playlistRepo, songRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo)
	adminService := service.NewAdminService(userRepo, adminRepo)

	sweeper := worker.NewImageSweeper(userRepo, imageStore, cfg.SweepInterval, log)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go sweeper.Run(workerCtx)

	router := api.NewRouter(api.RouterDeps{
		AuthService:     authService,
		UserService:     userService,
		SongService:     songService,
		ArtistService:   artistService,
		CategoryService: categoryService,
		PlaylistService: playlistService,
		FavoriteService: favoriteService,
		AdminService:    adminService,
		Sessions:        sessions,
		JWT:             jwtManager,
		PublicDir:       cfg.PublicDir,
		Log:             log,
	})

	server := &http.Server{
		Addr:        ":" + cfg.APIPort,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: /public audio streams are long-lived range
		// requests. API routes are bounded by the router's timeout.
		IdleTimeout: 120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.APIPort).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-stop

	log.Info().Msg("shutting down")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
