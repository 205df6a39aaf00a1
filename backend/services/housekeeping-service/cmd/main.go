package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-middleware"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-repositories"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"

	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/app"
	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/config"
	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/constants"
	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/controllers"
	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/routes"
	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/services"
	internal_utils "github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	if closer := utils.EnableLogFile(cfg.LogFile); closer != nil {
		defer closer.Close()
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize housekeeping-service:", err)
	}
	defer application.Close()

	propRepo := repositories.NewPropertyRepository(application.DB)
	roomRepo := repositories.NewRoomRepository(application.DB)

	idxCtx, idxCancel := context.WithTimeout(context.Background(), constants.DBConnectTimeout)
	if err := propRepo.EnsureIndexes(idxCtx); err != nil {
		utils.Logger.WithError(err).Warn("Failed to ensure property indexes")
	}
	if err := roomRepo.EnsureIndexes(idxCtx); err != nil {
		utils.Logger.WithError(err).Warn("Failed to ensure room indexes")
	}
	idxCancel()

	router := mux.NewRouter()

	var store services.ObjectStore
	if cfg.LDFlag_UseCloudinary {
		store = internal_utils.NewCloudinaryClient(internal_utils.CloudinaryConfig{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryFolder,
			BaseURL:   cfg.CloudinaryBaseURL,
			Timeout:   constants.CloudinaryUploadTimeout,
		})
		utils.Logger.Info("Media uploads go to Cloudinary")
	} else {
		local, err := internal_utils.NewLocalObjectStore(cfg.LocalStoreDir, cfg.CloudinaryFolder, cfg.LocalStoreBaseURL)
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to prepare local object store")
		}
		store = local
		router.PathPrefix(routes.UploadsPrefix).Handler(
			http.StripPrefix(routes.UploadsPrefix, http.FileServer(http.Dir(cfg.LocalStoreDir))),
		).Methods(http.MethodGet)
		utils.Logger.Infof("Media uploads go to local dir %s", cfg.LocalStoreDir)
	}

	mediaService := services.NewMediaService(store, cfg.MediaUploadConcurrency)
	propertyService := services.NewPropertyService(propRepo, roomRepo, mediaService)
	roomService := services.NewRoomService(roomRepo, propRepo, mediaService, cfg.ChecklistCatalog)
	resetService := services.NewRoomResetService(roomRepo)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedTestData(context.Background(), propertyService); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		} else {
			utils.Logger.Info("Seeded test data successfully")
		}
	}

	formOpts := controllers.FormOptions{MaxBytes: cfg.MaxUploadBytes, TmpDir: cfg.UploadTmpDir}
	healthController := controllers.NewHealthController(application)
	propertyController := controllers.NewPropertyController(propertyService, formOpts)
	roomController := controllers.NewRoomController(roomService, formOpts)

	router.Use(middleware.RequestIDMiddleware, middleware.AccessLogMiddleware, middleware.RecoveryMiddleware)

	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.PropertyCreate, propertyController.CreatePropertyHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PropertyList, propertyController.ListPropertiesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PropertyGet, propertyController.GetPropertyHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PropertyUpdate, propertyController.UpdatePropertyHandler).Methods(http.MethodPut)

	router.HandleFunc(routes.BuildingRooms, roomController.ListBuildingRoomsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.RoomInfo, roomController.GetRoomHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.RoomUpdate, roomController.UpdateRoomHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.RoomDelete, roomController.DeleteRoomHandler).Methods(http.MethodDelete)

	c := cron.New(cron.WithLocation(cfg.NightlyResetTZ))
	if cfg.LDFlag_NightlyResetEnabled {
		_, resetErr := c.AddFunc(cfg.NightlyResetCron, func() {
			if _, e := resetService.RunNightlyReset(context.Background()); e != nil {
				utils.Logger.WithError(e).Error("Scheduled nightly room reset failed")
			}
		})
		if resetErr != nil {
			utils.Logger.WithError(resetErr).Fatal("Failed to schedule nightly room reset cron")
		}
		utils.Logger.Infof("Nightly room reset scheduled at %q (%s)", cfg.NightlyResetCron, cfg.NightlyResetTZ)
	}
	c.Start()
	defer c.Stop()

	allowedOrigins := append([]string{cfg.AppUrl}, cfg.CORSOrigins...)
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: co.Handler(router),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("housekeeping-service failed to start:", err)
		}
	}()

	<-ctx.Done()
	utils.Logger.Info("Shutting down housekeeping-service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.WithError(err).Error("Graceful shutdown failed")
	}
}
