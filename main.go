package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quill/config"
	"quill/database"
	"quill/logger"
	"quill/media"
	"quill/middleware"
	"quill/repository"
	"quill/routes"
	"quill/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.GinMode != gin.ReleaseMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	gin.SetMode(cfg.GinMode)
	zlog.Info("starting quill", zap.String("mode", cfg.GinMode), zap.String("storage", cfg.Storage))

	sessions, err := session.NewManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	deps := routes.Deps{
		Config:   cfg,
		Log:      zlog,
		Sessions: sessions,
		Metrics:  middleware.NewMetrics(),
	}

	switch cfg.Storage {
	case config.StorageMongo:
		db, err := connectWithRetry(cfg, zlog, 3)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Disconnect(); err != nil {
				zlog.Warn("mongo disconnect", zap.Error(err))
			}
		}()

		deps.DB = db
		deps.Posts = repository.NewMongoPostRepository(db.Posts)
		deps.Users = repository.NewMongoUserRepository(db.Users)
		deps.Contacts = repository.NewMongoContactRepository(db.Contacts)
	case config.StorageMemory:
		zlog.Warn("using in-memory storage; data is lost on restart")
		deps.Posts = repository.NewMemoryPostRepository()
		deps.Users = repository.NewMemoryUserRepository()
		deps.Contacts = repository.NewMemoryContactRepository()
	}

	if cfg.CloudinaryURL != "" {
		uploader, err := media.NewCloudinaryUploader(cfg.CloudinaryURL)
		if err != nil {
			return err
		}
		deps.Uploader = uploader
	} else {
		zlog.Info("CLOUDINARY_URL not set; cover uploads disabled")
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      routes.SetupRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		zlog.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	zlog.Info("server stopped")
	return nil
}

func connectWithRetry(cfg *config.Config, zlog *zap.Logger, attempts int) (*database.DB, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := database.Connect(context.Background(), cfg.MongoURI, cfg.MongoDatabase, zlog)
		if err == nil {
			return db, nil
		}
		lastErr = err
		zlog.Warn("mongo connection attempt failed", zap.Int("attempt", i), zap.Error(err))
		if i < attempts {
			time.Sleep(2 * time.Second)
		}
	}
	return nil, lastErr
}
