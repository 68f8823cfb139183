package services

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/blobstore"
	"github.com/dmitrijs2005/bookexpert/internal/client/imagex"
	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/dmitrijs2005/bookexpert/internal/client/notify"
	"github.com/dmitrijs2005/bookexpert/internal/client/permission"
	"github.com/dmitrijs2005/bookexpert/internal/filex"
	"github.com/dmitrijs2005/bookexpert/internal/logging"
	"github.com/google/uuid"
)

const imageDisplayName = "An image"

// ImageStore is the part of the local store used for images.
type ImageStore interface {
	SaveImage(ctx context.Context, img *models.SavedImage) error
	Images(ctx context.Context) ([]models.SavedImage, error)
	DeleteImage(ctx context.Context, id string) (bool, error)
}

// GalleryEntry is one decoded image in the in-memory gallery.
type GalleryEntry struct {
	ID        string
	Image     image.Image
	JPEG      []byte
	Width     int
	Height    int
	CreatedAt time.Time
}

// ImagePipeline ingests, downsizes, persists and lists captured images.
// The gallery is ordered most recent first.
type ImagePipeline interface {
	Capture(ctx context.Context, img image.Image) (*GalleryEntry, error)
	ImportFile(ctx context.Context, path string) (*GalleryEntry, error)
	LoadGallery(ctx context.Context) (skipped int, err error)
	DeleteAt(ctx context.Context, index int) error
	ExportAt(index int, path string) error
	Gallery() []GalleryEntry

	Select(img image.Image) error
	Selected() image.Image
	SaveSelected(ctx context.Context) (*GalleryEntry, error)
}

type ImageOption func(*imagePipeline)

// WithImageSize sets the longest edge and JPEG quality of stored images.
func WithImageSize(maxDimension, quality int) ImageOption {
	return func(p *imagePipeline) {
		if maxDimension > 0 {
			p.maxDimension = maxDimension
		}
		if quality > 0 && quality <= 100 {
			p.quality = quality
		}
	}
}

func WithMirror(m blobstore.Mirror) ImageOption {
	return func(p *imagePipeline) { p.mirror = m }
}

func WithPermissions(g permission.Gateway) ImageOption {
	return func(p *imagePipeline) { p.permissions = g }
}

func WithImageLogger(l logging.Logger) ImageOption {
	return func(p *imagePipeline) { p.log = l }
}

func WithImageClock(now func() time.Time) ImageOption {
	return func(p *imagePipeline) { p.now = now }
}

type imagePipeline struct {
	store        ImageStore
	notifier     notify.Notifier
	mirror       blobstore.Mirror
	permissions  permission.Gateway
	log          logging.Logger
	now          func() time.Time
	maxDimension int
	quality      int

	mu       sync.Mutex
	gallery  []GalleryEntry
	selected image.Image
}

func NewImagePipeline(store ImageStore, notifier notify.Notifier, opts ...ImageOption) ImagePipeline {
	p := &imagePipeline{
		store:        store,
		notifier:     notifier,
		permissions:  permission.NewStatic(nil, permission.Authorized),
		log:          logging.Nop(),
		now:          time.Now,
		maxDimension: imagex.DefaultMaxDimension,
		quality:      imagex.DefaultQuality,
		gallery:      []GalleryEntry{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Capture stores a camera frame. Camera access is required.
func (p *imagePipeline) Capture(ctx context.Context, img image.Image) (*GalleryEntry, error) {
	if err := permission.Require(ctx, p.permissions, permission.Camera); err != nil {
		return nil, err
	}
	return p.ingest(ctx, img)
}

func (p *imagePipeline) ingest(ctx context.Context, img image.Image) (*GalleryEntry, error) {
	resized, err := imagex.Downsize(img, p.maxDimension)
	if err != nil {
		return nil, err
	}
	data, err := imagex.EncodeJPEG(resized, p.quality)
	if err != nil {
		return nil, err
	}

	b := resized.Bounds()
	saved := &models.SavedImage{
		ID:        uuid.NewString(),
		Data:      data,
		Checksum:  imagex.Checksum(data),
		Width:     b.Dx(),
		Height:    b.Dy(),
		CreatedAt: p.now().UTC(),
	}
	if err := p.store.SaveImage(ctx, saved); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	if p.mirror != nil {
		key := blobstore.ImageKey(saved.ID, saved.CreatedAt)
		if err := p.mirror.Put(ctx, key, data, "image/jpeg"); err != nil {
			p.log.Warn(ctx, "image mirror upload failed", "id", saved.ID, "error", err)
		}
	}

	entry := GalleryEntry{
		ID:        saved.ID,
		Image:     resized,
		JPEG:      data,
		Width:     saved.Width,
		Height:    saved.Height,
		CreatedAt: saved.CreatedAt,
	}

	p.mu.Lock()
	p.gallery = append([]GalleryEntry{entry}, p.gallery...)
	p.mu.Unlock()

	p.log.Info(ctx, "image captured", "id", entry.ID, "width", entry.Width, "height", entry.Height)
	return &entry, nil
}

func (p *imagePipeline) ImportFile(ctx context.Context, path string) (*GalleryEntry, error) {
	if err := permission.Require(ctx, p.permissions, permission.PhotoLibrary); err != nil {
		return nil, err
	}
	img, err := imagex.Open(path)
	if err != nil {
		return nil, err
	}
	return p.ingest(ctx, img)
}

func (p *imagePipeline) LoadGallery(ctx context.Context) (int, error) {
	rows, err := p.store.Images(ctx)
	if err != nil {
		return 0, err
	}

	gallery := make([]GalleryEntry, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		img, err := imagex.Decode(row.Data)
		if err != nil {
			skipped++
			p.log.Warn(ctx, "skipping undecodable image", "id", row.ID, "error", err)
			continue
		}
		b := img.Bounds()
		gallery = append(gallery, GalleryEntry{
			ID:        row.ID,
			Image:     img,
			JPEG:      row.Data,
			Width:     b.Dx(),
			Height:    b.Dy(),
			CreatedAt: row.CreatedAt,
		})
	}

	p.mu.Lock()
	p.gallery = gallery
	p.mu.Unlock()
	return skipped, nil
}

func (p *imagePipeline) entryAt(index int) (GalleryEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.gallery) {
		return GalleryEntry{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(p.gallery))
	}
	return p.gallery[index], nil
}

func (p *imagePipeline) DeleteAt(ctx context.Context, index int) error {
	entry, err := p.entryAt(index)
	if err != nil {
		return err
	}

	if _, err := p.store.DeleteImage(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	p.mu.Lock()
	for i := range p.gallery {
		if p.gallery[i].ID == entry.ID {
			p.gallery = append(p.gallery[:i], p.gallery[i+1:]...)
			break
		}
	}
	p.mu.Unlock()

	if p.mirror != nil {
		if err := p.mirror.Delete(ctx, blobstore.ImageKey(entry.ID, entry.CreatedAt)); err != nil {
			p.log.Warn(ctx, "image mirror delete failed", "id", entry.ID, "error", err)
		}
	}

	p.notifier.Notify(ctx, models.KindImage, imageDisplayName)
	p.log.Info(ctx, "image deleted", "id", entry.ID)
	return nil
}

// ExportAt writes the stored JPEG of the entry at index to path.
func (p *imagePipeline) ExportAt(index int, path string) error {
	entry, err := p.entryAt(index)
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(path, entry.JPEG, 0o644)
}

func (p *imagePipeline) Gallery() []GalleryEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]GalleryEntry(nil), p.gallery...)
}

// Select resizes img and holds it until SaveSelected.
func (p *imagePipeline) Select(img image.Image) error {
	resized, err := imagex.Downsize(img, p.maxDimension)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.selected = resized
	p.mu.Unlock()
	return nil
}

func (p *imagePipeline) Selected() image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// SaveSelected captures the selected frame and clears the selection.
// The selection is kept when capture fails.
func (p *imagePipeline) SaveSelected(ctx context.Context) (*GalleryEntry, error) {
	img := p.Selected()
	if img == nil {
		return nil, ErrNoSelection
	}
	entry, err := p.Capture(ctx, img)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.selected = nil
	p.mu.Unlock()
	return entry, nil
}
