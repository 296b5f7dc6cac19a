package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitemebuddy/admin-dashboard/config"
	"github.com/bitemebuddy/admin-dashboard/database"
	"github.com/bitemebuddy/admin-dashboard/hub"
	"github.com/bitemebuddy/admin-dashboard/router"
	"github.com/bitemebuddy/admin-dashboard/services"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}

	utils.InitLogger(cfg.App.LogLevel)
	utils.SetTimezone(cfg.App.Timezone)
	utils.ConfigureSessions(cfg.Session.SecretKey, cfg.Session.Lifetime)
	if cfg.Session.SecretKey == "dev-secret-key-change-in-production" {
		utils.ErrorLogger.Warn("SECRET_KEY is not set, using the development key")
	}

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Database.AutoCreate && cfg.Database.Driver != "mysql" && cfg.Database.Driver != "sqlite" {
		if err := database.EnsureDatabase(cfg.Database.URL); err != nil {
			utils.ErrorLogger.Fatalf("Failed to create database: %v", err)
		}
	}

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db, cfg.App.DefaultAdminPassword); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := database.NewMaintenance(db).BackfillMapsLinks(ctx); err != nil {
		utils.ErrorLogger.Warnf("maps link backfill: %v", err)
	}

	var media services.MediaStore = services.NoopMediaStore{}
	if cfg.Cloudinary.Enabled() {
		store, err := services.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			utils.ErrorLogger.Errorf("Cloudinary unavailable, photo uploads disabled: %v", err)
		} else {
			media = store
			utils.InfoLogger.Println("Cloudinary configured")
		}
	} else {
		utils.ErrorLogger.Warn("Cloudinary credentials missing, photo uploads disabled")
	}

	r := router.SetupRouter(router.Deps{
		Config: cfg,
		DB:     db,
		Hub:    hub.New(),
		Media:  media,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("%s %s listening on port %s", config.AppName, config.AppVersion, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
