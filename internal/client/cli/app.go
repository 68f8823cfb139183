package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/bookexpert/internal/client/auth"
	"github.com/dmitrijs2005/bookexpert/internal/client/blobstore"
	"github.com/dmitrijs2005/bookexpert/internal/client/client"
	"github.com/dmitrijs2005/bookexpert/internal/client/config"
	"github.com/dmitrijs2005/bookexpert/internal/client/notify"
	"github.com/dmitrijs2005/bookexpert/internal/client/pdf"
	"github.com/dmitrijs2005/bookexpert/internal/client/permission"
	"github.com/dmitrijs2005/bookexpert/internal/client/services"
	"github.com/dmitrijs2005/bookexpert/internal/client/store"
	"github.com/dmitrijs2005/bookexpert/internal/logging"
)

// App holds the wired services used by the commands.
type App struct {
	cfg      *config.Config
	log      logging.Logger
	store    *store.Store
	auth     *auth.TokenProvider
	settings services.SettingsService
	objects  services.ObjectSyncService
	images   services.ImagePipeline
	pdf      *pdf.Fetcher
}

// NewApp builds an App from cfg. Notifications are printed to out and logs
// go to logOut.
func NewApp(ctx context.Context, cfg *config.Config, out, logOut io.Writer) (*App, error) {
	log, err := logging.New(logOut, cfg.LogOptions())
	if err != nil {
		return nil, err
	}

	policy, err := store.ParsePolicy(cfg.PersistencePolicy)
	if err != nil {
		return nil, err
	}
	refresh, err := services.ParseRefreshPolicy(cfg.RefreshPolicy)
	if err != nil {
		return nil, err
	}
	camera, err := permission.ParseStatus(cfg.CameraPermission)
	if err != nil {
		return nil, err
	}
	photos, err := permission.ParseStatus(cfg.PhotoLibraryPermission)
	if err != nil {
		return nil, err
	}

	mirror, err := blobstore.New(ctx, cfg.BlobstoreConfig())
	if err != nil {
		return nil, fmt.Errorf("image mirror: %w", err)
	}

	db, err := client.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "dsn", cfg.DatabaseDSN, "error", err)
		return nil, err
	}
	st := store.New(db, store.WithPolicy(policy), store.WithLogger(log))

	tokens := auth.NewTokenProvider(st, cfg.AuthSecret, log)
	api := client.NewHTTPClient(cfg.ObjectsEndpoint,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithTokenSource(tokens),
	)

	settings := services.NewSettingsService(st)
	sink := notify.NewSink(settings, &notify.WriterPoster{W: out}, log)

	imageOpts := []services.ImageOption{
		services.WithImageSize(cfg.ImageMaxDimension, cfg.ImageQuality),
		services.WithPermissions(permission.NewStatic(map[permission.Resource]permission.Status{
			permission.Camera:       camera,
			permission.PhotoLibrary: photos,
		}, permission.Authorized)),
		services.WithImageLogger(log),
	}
	if mirror != nil {
		imageOpts = append(imageOpts, services.WithMirror(mirror))
	}

	return &App{
		cfg:      cfg,
		log:      log,
		store:    st,
		auth:     tokens,
		settings: settings,
		objects: services.NewObjectSyncService(api, st, sink,
			services.WithRefreshPolicy(refresh),
			services.WithObjectLogger(log),
		),
		images: services.NewImagePipeline(st, sink, imageOpts...),
		pdf:    pdf.NewFetcher(cfg.PDFURL, &http.Client{Timeout: cfg.RequestTimeout}),
	}, nil
}

// Close releases the local database.
func (a *App) Close() error {
	return a.store.Close()
}
