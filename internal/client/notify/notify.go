// Package notify posts local notices when an object or image is deleted.
//
// Posting is gated by two user settings, both of which must be on. Nothing in
// this package returns an error to the caller: read and delivery failures are
// logged and dropped.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/dmitrijs2005/bookexpert/internal/logging"
	"github.com/google/uuid"
)

// Notifier is what services depend on.
type Notifier interface {
	Notify(ctx context.Context, kind models.DeletedKind, displayName string)
}

// SettingsReader supplies the current notification toggles.
type SettingsReader interface {
	Settings(ctx context.Context) (models.Settings, error)
}

// Poster delivers a built notification.
type Poster interface {
	Post(ctx context.Context, n models.Notification) error
}

type template struct {
	title string
	body  string
}

var templates = map[models.DeletedKind]template{
	models.KindObject: {title: "Item Deleted", body: "%s has been deleted from your list."},
	models.KindImage:  {title: "Image Deleted", body: "%s has been removed from your saved list."},
}

// Sink implements Notifier.
type Sink struct {
	settings SettingsReader
	poster   Poster
	log      logging.Logger
	now      func() time.Time
}

func NewSink(settings SettingsReader, poster Poster, log logging.Logger) *Sink {
	if log == nil {
		log = logging.Nop()
	}
	return &Sink{settings: settings, poster: poster, log: log, now: time.Now}
}

// Build renders the notification for kind. The bool is false for an unknown kind.
func Build(kind models.DeletedKind, displayName string, now time.Time) (models.Notification, bool) {
	tpl, ok := templates[kind]
	if !ok {
		return models.Notification{}, false
	}
	return models.Notification{
		ID:        string(kind) + "-" + uuid.NewString(),
		Kind:      kind,
		Title:     tpl.title,
		Body:      fmt.Sprintf(tpl.body, displayName),
		CreatedAt: now,
	}, true
}

func (s *Sink) Notify(ctx context.Context, kind models.DeletedKind, displayName string) {
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		s.log.Warn(ctx, "notification skipped: settings unavailable", "error", err)
		return
	}
	if !settings.DeleteNoticesAllowed() {
		s.log.Debug(ctx, "notification suppressed by settings", "kind", kind)
		return
	}

	n, ok := Build(kind, displayName, s.now())
	if !ok {
		s.log.Warn(ctx, "notification skipped: unknown kind", "kind", kind)
		return
	}

	if err := s.poster.Post(ctx, n); err != nil {
		s.log.Error(ctx, "failed to post notification", "id", n.ID, "error", err)
	}
}
