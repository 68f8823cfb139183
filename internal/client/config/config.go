package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/blobstore"
	"github.com/dmitrijs2005/bookexpert/internal/client/permission"
	"github.com/dmitrijs2005/bookexpert/internal/client/services"
	"github.com/dmitrijs2005/bookexpert/internal/client/store"
	"github.com/dmitrijs2005/bookexpert/internal/logging"
)

// Config holds runtime settings for the BookExpert CLI.
//
// Durations are time.Duration; a RequestTimeout of zero keeps the HTTP
// transport default.
type Config struct {
	ObjectsEndpoint string
	PDFURL          string
	DatabaseDSN     string
	RequestTimeout  time.Duration

	PersistencePolicy   string
	RefreshPolicy       string
	AutoRefreshInterval time.Duration

	ImageMaxDimension int
	ImageQuality      int

	CameraPermission       string
	PhotoLibraryPermission string

	LogBackend string
	LogLevel   string
	LogFormat  string

	AuthSecret string

	Blob BlobConfig
}

// BlobConfig configures the optional image mirror.
type BlobConfig struct {
	Backend   string
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ObjectsEndpoint = "https://api.restful-api.dev/objects"
	c.PDFURL = "https://www.africau.edu/images/default/sample.pdf"
	c.DatabaseDSN = "bookexpert.db"
	c.RequestTimeout = 0
	c.PersistencePolicy = "swallow"
	c.RefreshPolicy = "additive"
	c.AutoRefreshInterval = 30 * time.Second
	c.ImageMaxDimension = 1024
	c.ImageQuality = 80
	c.CameraPermission = string(permission.Authorized)
	c.PhotoLibraryPermission = string(permission.Authorized)
	c.LogBackend = logging.BackendSlog
	c.LogLevel = "info"
	c.LogFormat = logging.FormatText
	c.Blob = BlobConfig{Region: "us-east-1", Bucket: "bookexpert-images"}
}

// Validate reports every inconsistent setting.
func (c *Config) Validate() error {
	var errs []error
	if c.ObjectsEndpoint == "" {
		errs = append(errs, errors.New("objects endpoint must not be empty"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn must not be empty"))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("request timeout must not be negative"))
	}
	if _, err := store.ParsePolicy(c.PersistencePolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := services.ParseRefreshPolicy(c.RefreshPolicy); err != nil {
		errs = append(errs, err)
	}
	if c.AutoRefreshInterval <= 0 {
		errs = append(errs, errors.New("auto refresh interval must be positive"))
	}
	if c.ImageMaxDimension <= 0 {
		errs = append(errs, errors.New("image max dimension must be positive"))
	}
	if c.ImageQuality < 1 || c.ImageQuality > 100 {
		errs = append(errs, fmt.Errorf("image quality %d out of range 1-100", c.ImageQuality))
	}
	for _, s := range []string{c.CameraPermission, c.PhotoLibraryPermission} {
		if _, err := permission.ParseStatus(s); err != nil {
			errs = append(errs, err)
		}
	}
	switch c.Blob.Backend {
	case blobstore.BackendNone, blobstore.BackendS3, blobstore.BackendMinio:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", blobstore.ErrUnknownBackend, c.Blob.Backend))
	}
	return errors.Join(errs...)
}

// LogOptions converts the log settings for logging.New.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{Backend: c.LogBackend, Level: c.LogLevel, Format: c.LogFormat}
}

// BlobstoreConfig converts the blob settings for blobstore.New.
func (c *Config) BlobstoreConfig() blobstore.Config {
	return blobstore.Config{
		Backend:   c.Blob.Backend,
		Bucket:    c.Blob.Bucket,
		Region:    c.Blob.Region,
		Endpoint:  c.Blob.Endpoint,
		AccessKey: c.Blob.AccessKey,
		SecretKey: c.Blob.SecretKey,
		UseSSL:    c.Blob.UseSSL,
	}
}
