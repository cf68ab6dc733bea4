package app

import (
	"context"
	"fmt"
	"net/http"

	"lab-cost-estimator/app/controller"
	"lab-cost-estimator/app/router"
	"lab-cost-estimator/db"
	"lab-cost-estimator/pricing"
	"lab-cost-estimator/repository"
	"lab-cost-estimator/service"
	"lab-cost-estimator/utils"
)

// App holds the wired application components
type App struct {
	Config      Config
	Store       db.DocumentStore
	Catalog     *repository.CatalogRepository
	Experiments *repository.ExperimentRepository
	Engine      *pricing.Engine
	Reports     *service.ReportService
	Handler     http.Handler
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg Config) (*App, error) {
	// Open the document backend
	store, err := db.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Store.Backend, err)
	}
	utils.Log.Infof("✓ Using %s data backend", store.Name())

	// Load the stores
	catalog := repository.NewCatalogRepository(store)
	experiments := repository.NewExperimentRepository(store, catalog)
	if err := catalog.Reload(ctx); err != nil {
		store.Close()
		return nil, err
	}
	if err := experiments.Reload(ctx); err != nil {
		store.Close()
		return nil, err
	}

	engine := pricing.NewEngine(experiments)

	// Drive upload is optional
	var uploader service.ReportUploaderInterface
	if cfg.DriveReportsFolderID != "" {
		driveService, err := service.NewDriveService(ctx, cfg.GoogleCredentials, cfg.DriveReportsFolderID)
		if err != nil {
			store.Close()
			return nil, err
		}
		uploader = driveService
		utils.Log.Infof("✓ Report uploads enabled (folder=%s)", cfg.DriveReportsFolderID)
	}
	reports := service.NewReportService(engine, uploader, cfg.CurrencySymbol, cfg.ChromePath)

	// Create controllers
	controllers := &router.Controllers{
		Item:           controller.NewItemController(catalog),
		Category:       controller.NewCategoryController(catalog),
		Experiment:     controller.NewExperimentController(experiments),
		ExperimentItem: controller.NewExperimentItemController(experiments),
		Calculate:      controller.NewCalculateController(engine),
		Report:         controller.NewReportController(reports),
	}

	return &App{
		Config:      cfg,
		Store:       store,
		Catalog:     catalog,
		Experiments: experiments,
		Engine:      engine,
		Reports:     reports,
		Handler:     router.NewRouter(controllers),
	}, nil
}

// WatchDataFiles reloads the stores when their JSON files are edited on
// disk. Only the file backend supports it.
func (a *App) WatchDataFiles(ctx context.Context) error {
	fs, ok := a.Store.(*db.FileStore)
	if !ok {
		utils.Log.Warnf("⚠️  WATCH_DATA_FILES ignored: %s backend has no files to watch", a.Store.Name())
		return nil
	}
	return fs.Watch(ctx, func(name string) {
		var err error
		switch name {
		case db.DocumentItems, db.DocumentCategories:
			err = a.Catalog.Reload(ctx)
		case db.DocumentExperiments:
			err = a.Experiments.Reload(ctx)
		}
		if err != nil {
			utils.Log.Errorf("❌ Reload of %s failed: %v", name, err)
		}
	})
}

// Close releases the document backend
func (a *App) Close() error {
	return a.Store.Close()
}
