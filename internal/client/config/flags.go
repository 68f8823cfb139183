package config

import (
	"github.com/spf13/pflag"
)

// FlagConfig names the flag selecting the JSON config file.
const FlagConfig = "config"

// Flags holds the values bound to command-line flags. Only flags the user
// actually set are applied by Load.
type Flags struct {
	values Config
}

// flagAppliers copies one flag's value from src into dst.
var flagAppliers = map[string]func(dst, src *Config){
	"endpoint":          func(d, s *Config) { d.ObjectsEndpoint = s.ObjectsEndpoint },
	"pdf-url":           func(d, s *Config) { d.PDFURL = s.PDFURL },
	"db":                func(d, s *Config) { d.DatabaseDSN = s.DatabaseDSN },
	"timeout":           func(d, s *Config) { d.RequestTimeout = s.RequestTimeout },
	"persistence":       func(d, s *Config) { d.PersistencePolicy = s.PersistencePolicy },
	"refresh-policy":    func(d, s *Config) { d.RefreshPolicy = s.RefreshPolicy },
	"refresh-interval":  func(d, s *Config) { d.AutoRefreshInterval = s.AutoRefreshInterval },
	"image-max":         func(d, s *Config) { d.ImageMaxDimension = s.ImageMaxDimension },
	"image-quality":     func(d, s *Config) { d.ImageQuality = s.ImageQuality },
	"camera-permission": func(d, s *Config) { d.CameraPermission = s.CameraPermission },
	"photos-permission": func(d, s *Config) { d.PhotoLibraryPermission = s.PhotoLibraryPermission },
	"log-backend":       func(d, s *Config) { d.LogBackend = s.LogBackend },
	"log-level":         func(d, s *Config) { d.LogLevel = s.LogLevel },
	"log-format":        func(d, s *Config) { d.LogFormat = s.LogFormat },
	"auth-secret":       func(d, s *Config) { d.AuthSecret = s.AuthSecret },
	"blob-backend":      func(d, s *Config) { d.Blob.Backend = s.Blob.Backend },
	"blob-bucket":       func(d, s *Config) { d.Blob.Bucket = s.Blob.Bucket },
	"blob-region":       func(d, s *Config) { d.Blob.Region = s.Blob.Region },
	"blob-endpoint":     func(d, s *Config) { d.Blob.Endpoint = s.Blob.Endpoint },
	"blob-access-key":   func(d, s *Config) { d.Blob.AccessKey = s.Blob.AccessKey },
	"blob-secret-key":   func(d, s *Config) { d.Blob.SecretKey = s.Blob.SecretKey },
	"blob-ssl":          func(d, s *Config) { d.Blob.UseSSL = s.Blob.UseSSL },
}

// RegisterFlags defines all configuration flags on fs with defaults as their
// default values.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	v := &f.values
	v.LoadDefaults()

	fs.StringP(FlagConfig, "c", "", "path to a JSON config file")
	fs.StringVar(&v.ObjectsEndpoint, "endpoint", v.ObjectsEndpoint, "objects endpoint URL")
	fs.StringVar(&v.PDFURL, "pdf-url", v.PDFURL, "URL of the PDF document")
	fs.StringVar(&v.DatabaseDSN, "db", v.DatabaseDSN, "path of the local SQLite cache")
	fs.DurationVar(&v.RequestTimeout, "timeout", v.RequestTimeout, "per-request timeout (0 keeps the transport default)")
	fs.StringVar(&v.PersistencePolicy, "persistence", v.PersistencePolicy, "persistence failure policy: swallow|surface")
	fs.StringVar(&v.RefreshPolicy, "refresh-policy", v.RefreshPolicy, "refresh policy: additive|reconcile")
	fs.DurationVar(&v.AutoRefreshInterval, "refresh-interval", v.AutoRefreshInterval, "auto refresh interval")
	fs.IntVar(&v.ImageMaxDimension, "image-max", v.ImageMaxDimension, "longest edge of stored images in pixels")
	fs.IntVar(&v.ImageQuality, "image-quality", v.ImageQuality, "JPEG quality of stored images (1-100)")
	fs.StringVar(&v.CameraPermission, "camera-permission", v.CameraPermission, "camera authorization status")
	fs.StringVar(&v.PhotoLibraryPermission, "photos-permission", v.PhotoLibraryPermission, "photo library authorization status")
	fs.StringVar(&v.LogBackend, "log-backend", v.LogBackend, "log backend: slog|zap")
	fs.StringVar(&v.LogLevel, "log-level", v.LogLevel, "log level: debug|info|warn|error")
	fs.StringVar(&v.LogFormat, "log-format", v.LogFormat, "log format: text|json")
	fs.StringVar(&v.AuthSecret, "auth-secret", v.AuthSecret, "HS256 secret used to verify ID tokens")
	fs.StringVar(&v.Blob.Backend, "blob-backend", v.Blob.Backend, "image mirror backend: s3|minio (empty disables)")
	fs.StringVar(&v.Blob.Bucket, "blob-bucket", v.Blob.Bucket, "image mirror bucket")
	fs.StringVar(&v.Blob.Region, "blob-region", v.Blob.Region, "image mirror region")
	fs.StringVar(&v.Blob.Endpoint, "blob-endpoint", v.Blob.Endpoint, "image mirror endpoint")
	fs.StringVar(&v.Blob.AccessKey, "blob-access-key", v.Blob.AccessKey, "image mirror access key")
	fs.StringVar(&v.Blob.SecretKey, "blob-secret-key", v.Blob.SecretKey, "image mirror secret key")
	fs.BoolVar(&v.Blob.UseSSL, "blob-ssl", v.Blob.UseSSL, "use TLS for the minio endpoint")

	return f
}

// applyFlags overlays cfg with every flag that was explicitly set on fs.
func (f *Flags) applyFlags(cfg *Config, fs *pflag.FlagSet) {
	fs.VisitAll(func(fl *pflag.Flag) {
		if !fl.Changed {
			return
		}
		if apply, ok := flagAppliers[fl.Name]; ok {
			apply(cfg, &f.values)
		}
	})
}
