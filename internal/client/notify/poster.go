package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/dmitrijs2005/bookexpert/internal/logging"
)

// LogPoster delivers notifications as log records.
type LogPoster struct {
	Log logging.Logger
}

func (p LogPoster) Post(ctx context.Context, n models.Notification) error {
	p.Log.Info(ctx, n.Title, "id", n.ID, "kind", n.Kind, "body", n.Body)
	return nil
}

// WriterPoster prints notifications to a terminal-like writer.
type WriterPoster struct {
	mu sync.Mutex
	W  io.Writer
}

func (p *WriterPoster) Post(_ context.Context, n models.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintf(p.W, "[%s] %s\n", n.Title, n.Body)
	return err
}
