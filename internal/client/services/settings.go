package services

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
)

const (
	keyNotificationsEnabled    = "notificationsEnabled"
	keyShowDeleteNotifications = "showDeleteNotifications"
)

// MetadataStore is the key/value persistence behind settings.
type MetadataStore interface {
	Metadata(ctx context.Context, key string) ([]byte, error)
	SetMetadata(ctx context.Context, values map[string][]byte) error
}

// SettingsService reads and writes the user's notification toggles.
type SettingsService interface {
	Settings(ctx context.Context) (models.Settings, error)
	SetNotificationsEnabled(ctx context.Context, on bool) error
	SetShowDeleteNotifications(ctx context.Context, on bool) error
}

type settingsService struct {
	store MetadataStore
}

func NewSettingsService(store MetadataStore) SettingsService {
	return &settingsService{store: store}
}

// Settings returns stored toggles; keys never written, or holding anything
// other than a boolean, take their default.
func (s *settingsService) Settings(ctx context.Context) (models.Settings, error) {
	result := models.DefaultSettings()

	v, err := s.readBool(ctx, keyNotificationsEnabled, result.NotificationsEnabled)
	if err != nil {
		return result, err
	}
	result.NotificationsEnabled = v

	v, err = s.readBool(ctx, keyShowDeleteNotifications, result.ShowDeleteNotifications)
	if err != nil {
		return result, err
	}
	result.ShowDeleteNotifications = v

	return result, nil
}

func (s *settingsService) readBool(ctx context.Context, key string, def bool) (bool, error) {
	raw, err := s.store.Metadata(ctx, key)
	if err != nil {
		return def, err
	}
	if raw == nil {
		return def, nil
	}
	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		return def, nil
	}
	return v, nil
}

func (s *settingsService) SetNotificationsEnabled(ctx context.Context, on bool) error {
	return s.store.SetMetadata(ctx, map[string][]byte{keyNotificationsEnabled: []byte(strconv.FormatBool(on))})
}

func (s *settingsService) SetShowDeleteNotifications(ctx context.Context, on bool) error {
	return s.store.SetMetadata(ctx, map[string][]byte{keyShowDeleteNotifications: []byte(strconv.FormatBool(on))})
}
