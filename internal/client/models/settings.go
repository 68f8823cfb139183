package models

// Settings are the user preference flags kept in the metadata table.
type Settings struct {
	NotificationsEnabled    bool
	ShowDeleteNotifications bool
}

// DefaultSettings are used for keys that were never written.
func DefaultSettings() Settings {
	return Settings{NotificationsEnabled: false, ShowDeleteNotifications: true}
}

// DeleteNoticesAllowed reports whether a delete notification may be shown.
func (s Settings) DeleteNoticesAllowed() bool {
	return s.NotificationsEnabled && s.ShowDeleteNotifications
}
