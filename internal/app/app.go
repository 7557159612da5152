// Package app wires the catalog components together from Settings.
//
//	settings, _ := config.Load(path)
//	logger, _ := logging.New(settings.Log.Level, settings.Log.Format)
//	a, err := app.New(ctx, settings, logger)
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	res, err := a.Reconciler.SyncTrackIDs(ctx, album, ids)
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/handiism/album-catalog/internal/audio"
	"github.com/handiism/album-catalog/internal/cache"
	"github.com/handiism/album-catalog/internal/catalog"
	"github.com/handiism/album-catalog/internal/config"
	"github.com/handiism/album-catalog/internal/export"
	"github.com/handiism/album-catalog/internal/model"
	"github.com/handiism/album-catalog/internal/present"
	"github.com/handiism/album-catalog/internal/storage"
	"github.com/handiism/album-catalog/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the long lived components of one process.
type App struct {
	Settings *config.Settings
	Logger   *zap.Logger

	DB    *gorm.DB
	Store *store.Store
	Cache cache.Cache
	Files storage.Store

	Reconciler *catalog.Reconciler
	Aggregates *catalog.Aggregates
	Presenter  *present.Presenter

	cleanup []func() error
}

// New connects to the database, cache and file storage named in s and
// builds the catalog services on top of them. The schema is migrated on
// start. Close releases every connection.
func New(ctx context.Context, s *config.Settings, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Settings: s, Logger: logger}

	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	s := a.Settings

	db, err := store.NewDB(s.ToStoreConfig(), a.Logger)
	if err != nil {
		return err
	}
	a.DB = db
	a.cleanup = append(a.cleanup, func() error { return store.Close(db) })

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	a.Store = store.New(db, a.Logger)

	if err := a.initCache(ctx); err != nil {
		return err
	}

	retagger, err := a.initFiles(ctx)
	if err != nil {
		return err
	}

	a.Reconciler = catalog.NewReconciler(a.Store, catalog.Options{
		Retagger: retagger,
		Cache:    a.Cache,
		Logger:   a.Logger.Named("reconciler"),
	})
	a.Aggregates = catalog.NewAggregates(a.Store, a.Files, a.Cache, catalog.AggregateOptions{
		TTL:    s.Cache.TTL,
		Logger: a.Logger.Named("aggregates"),
	})
	a.Presenter = present.NewPresenter(present.URLBuilder{BaseURL: s.Site.BaseURL}, a.Aggregates, s.Site.Name)

	a.Logger.Info("catalog ready",
		zap.String("database", s.Database.Driver),
		zap.String("cache", s.Cache.Driver),
		zap.String("storage", s.Storage.Driver),
	)
	return nil
}

func (a *App) initCache(ctx context.Context) error {
	s := a.Settings
	switch s.Cache.Driver {
	case "memory", "":
		a.Cache = cache.NewMemoryCache(s.ToCacheOptions())
	case "redis":
		client, err := cache.NewRedisClient(ctx, s.ToRedisConfig())
		if err != nil {
			return err
		}
		rc := cache.NewRedisCache(client, s.ToCacheOptions())
		a.Cache = rc
		a.cleanup = append(a.cleanup, rc.Close)
	default:
		return fmt.Errorf("unsupported cache driver: %s", s.Cache.Driver)
	}
	return nil
}

// initFiles picks the file backend. Only local files can be retagged; the
// remote backends get no retagger.
func (a *App) initFiles(ctx context.Context) (catalog.Retagger, error) {
	s := a.Settings
	switch s.Storage.Driver {
	case "local", "":
		local := storage.NewLocalStore(s.Storage.Root)
		a.Files = local
		return audio.NewRetagger(local, a.Store, s.ToTagConfig()), nil
	case "http":
		a.Files = storage.NewHTTPStore(s.Storage.BaseURL, s.Storage.HTTPTimeout)
	case "minio":
		ms, err := storage.NewMinioStore(ctx, s.ToMinioConfig())
		if err != nil {
			return nil, err
		}
		a.Files = ms
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", s.Storage.Driver)
	}

	a.Logger.Debug("retagging disabled for remote storage", zap.String("storage", s.Storage.Driver))
	return nil, nil
}

// NewExporter returns an exporter over the app's store and files.
// onProgress may be nil.
func (a *App) NewExporter(onProgress func(export.ProgressEvent)) *export.Exporter {
	return export.NewExporter(a.Store, a.Files, a.Store, a.Settings.ToExportSettings(), onProgress)
}

// AlbumData loads everything the presenter needs for albumID as seen by
// viewer. A missing owner is tolerated.
func (a *App) AlbumData(ctx context.Context, albumID int64, viewer model.Viewer) (present.AlbumData, error) {
	album, err := a.Store.Album(ctx, albumID)
	if err != nil {
		return present.AlbumData{}, err
	}

	d := present.AlbumData{Album: album}

	d.Owner, err = a.Store.User(ctx, album.UserID)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return present.AlbumData{}, err
	}

	d.Tracks, err = a.Store.AlbumTracks(ctx, album.ID)
	if err != nil {
		return present.AlbumData{}, err
	}

	if viewer.Authenticated() {
		d.ResourceUser, err = a.Store.ResourceUser(ctx, viewer.UserID, album.ID)
		if err != nil {
			return present.AlbumData{}, err
		}
	}
	return d, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.cleanup = nil
	_ = a.Logger.Sync()
	return errors.Join(errs...)
}
