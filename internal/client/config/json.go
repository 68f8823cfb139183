package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bookexpert/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so they can be strings like "30s" or integer nanoseconds.
type JsonConfig struct {
	ObjectsEndpoint        string         `json:"objects_endpoint"`
	PDFURL                 string         `json:"pdf_url"`
	DatabaseDSN            string         `json:"database_dsn"`
	RequestTimeout         timex.Duration `json:"request_timeout"`
	PersistencePolicy      string         `json:"persistence_policy"`
	RefreshPolicy          string         `json:"refresh_policy"`
	AutoRefreshInterval    timex.Duration `json:"auto_refresh_interval"`
	ImageMaxDimension      int            `json:"image_max_dimension"`
	ImageQuality           int            `json:"image_quality"`
	CameraPermission       string         `json:"camera_permission"`
	PhotoLibraryPermission string         `json:"photo_library_permission"`
	LogBackend             string         `json:"log_backend"`
	LogLevel               string         `json:"log_level"`
	LogFormat              string         `json:"log_format"`
	AuthSecret             string         `json:"auth_secret"`
	Blob                   JsonBlobConfig `json:"blob"`
}

type JsonBlobConfig struct {
	Backend   string `json:"backend"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	UseSSL    bool   `json:"use_ssl"`
}

func toJSON(c *Config) JsonConfig {
	return JsonConfig{
		ObjectsEndpoint:        c.ObjectsEndpoint,
		PDFURL:                 c.PDFURL,
		DatabaseDSN:            c.DatabaseDSN,
		RequestTimeout:         timex.Duration{Duration: c.RequestTimeout},
		PersistencePolicy:      c.PersistencePolicy,
		RefreshPolicy:          c.RefreshPolicy,
		AutoRefreshInterval:    timex.Duration{Duration: c.AutoRefreshInterval},
		ImageMaxDimension:      c.ImageMaxDimension,
		ImageQuality:           c.ImageQuality,
		CameraPermission:       c.CameraPermission,
		PhotoLibraryPermission: c.PhotoLibraryPermission,
		LogBackend:             c.LogBackend,
		LogLevel:               c.LogLevel,
		LogFormat:              c.LogFormat,
		AuthSecret:             c.AuthSecret,
		Blob:                   JsonBlobConfig(c.Blob),
	}
}

func (jc JsonConfig) apply(c *Config) {
	c.ObjectsEndpoint = jc.ObjectsEndpoint
	c.PDFURL = jc.PDFURL
	c.DatabaseDSN = jc.DatabaseDSN
	c.RequestTimeout = jc.RequestTimeout.Duration
	c.PersistencePolicy = jc.PersistencePolicy
	c.RefreshPolicy = jc.RefreshPolicy
	c.AutoRefreshInterval = jc.AutoRefreshInterval.Duration
	c.ImageMaxDimension = jc.ImageMaxDimension
	c.ImageQuality = jc.ImageQuality
	c.CameraPermission = jc.CameraPermission
	c.PhotoLibraryPermission = jc.PhotoLibraryPermission
	c.LogBackend = jc.LogBackend
	c.LogLevel = jc.LogLevel
	c.LogFormat = jc.LogFormat
	c.AuthSecret = jc.AuthSecret
	c.Blob = BlobConfig(jc.Blob)
}

// parseJSON overlays cfg with the keys present in the JSON file at path.
// Keys absent from the file keep their current values.
func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	jc := toJSON(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	jc.apply(cfg)
	return nil
}
