// Package services contains the application services of the BookExpert
// client. Front-ends call them; they call the REST client and the local
// store, and report deletions to the notifier.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/bookexpert/internal/client/client"
	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/dmitrijs2005/bookexpert/internal/client/notify"
	"github.com/dmitrijs2005/bookexpert/internal/logging"
)

// MaxNameLength bounds object names, counted in runes.
const MaxNameLength = 50

const fallbackItemName = "Item"

// RefreshPolicy decides what Refresh does with cached objects that the remote
// list no longer contains.
type RefreshPolicy string

const (
	// RefreshAdditive keeps them.
	RefreshAdditive RefreshPolicy = "additive"
	// RefreshReconcile deletes them after the upserts.
	RefreshReconcile RefreshPolicy = "reconcile"
)

func ParseRefreshPolicy(s string) (RefreshPolicy, error) {
	switch RefreshPolicy(s) {
	case "", RefreshAdditive:
		return RefreshAdditive, nil
	case RefreshReconcile:
		return RefreshReconcile, nil
	}
	return "", fmt.Errorf("unknown refresh policy %q", s)
}

// ObjectStore is the part of the local store used for objects.
type ObjectStore interface {
	UpsertObject(ctx context.Context, obj models.RemoteObject) (bool, error)
	Objects(ctx context.Context) ([]models.CachedObject, error)
	ObjectByID(ctx context.Context, id string) (*models.CachedObject, error)
	DeleteObject(ctx context.Context, id string) (bool, error)
	PruneObjects(ctx context.Context, keep map[string]struct{}) (int, error)
}

// ObjectState is a snapshot of what a front-end renders.
type ObjectState struct {
	Items      []models.CachedObject
	IsLoading  bool
	Err        error
	SearchText string
}

// ObjectSyncService reconciles the remote object list with the local cache.
type ObjectSyncService interface {
	// Load publishes the cached objects without contacting the remote.
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
	CreateItem(ctx context.Context, name string, data map[string]any) (*models.RemoteObject, error)
	UpdateItem(ctx context.Context, id, name string, data map[string]any) (*models.RemoteObject, error)
	RemoveItem(ctx context.Context, id string) error

	State() ObjectState
	FilteredItems() []models.CachedObject
	SetSearchText(text string)
	ClearError()

	// AutoRefresh calls Refresh every interval until ctx is done. observe, if
	// not nil, receives the state after each attempt.
	AutoRefresh(ctx context.Context, interval time.Duration, observe func(ObjectState)) error
}

type ObjectOption func(*objectSyncService)

func WithRefreshPolicy(p RefreshPolicy) ObjectOption {
	return func(s *objectSyncService) { s.policy = p }
}

func WithObjectLogger(l logging.Logger) ObjectOption {
	return func(s *objectSyncService) { s.log = l }
}

type objectSyncService struct {
	client   client.ObjectClient
	store    ObjectStore
	notifier notify.Notifier
	policy   RefreshPolicy
	log      logging.Logger

	mu    sync.Mutex
	state ObjectState
}

func NewObjectSyncService(c client.ObjectClient, store ObjectStore, notifier notify.Notifier, opts ...ObjectOption) ObjectSyncService {
	s := &objectSyncService{
		client:   c,
		store:    store,
		notifier: notifier,
		policy:   RefreshAdditive,
		log:      logging.Nop(),
		state:    ObjectState{Items: []models.CachedObject{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *objectSyncService) setItems(items []models.CachedObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Items = items
}

func (s *objectSyncService) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = v
}

func (s *objectSyncService) setError(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = err
	return err
}

// reload publishes the cached objects as the current item list.
func (s *objectSyncService) reload(ctx context.Context) error {
	items, err := s.store.Objects(ctx)
	if err != nil {
		return err
	}
	s.setItems(items)
	return nil
}

func (s *objectSyncService) Load(ctx context.Context) error {
	if err := s.reload(ctx); err != nil {
		return s.setError(err)
	}
	return nil
}

func (s *objectSyncService) Refresh(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.reload(ctx); err != nil {
		return s.setError(err)
	}

	remote, err := s.client.List(ctx)
	if err != nil {
		s.log.Warn(ctx, "refresh failed", "error", err)
		return s.setError(err)
	}

	seen := make(map[string]struct{}, len(remote))
	var firstErr error
	written, skipped := 0, 0
	for _, obj := range remote {
		if obj.ID == "" || obj.Name == "" {
			skipped++
			continue
		}
		seen[obj.ID] = struct{}{}

		changed, err := s.store.UpsertObject(ctx, obj)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if changed {
			written++
		}
	}

	if s.policy == RefreshReconcile && firstErr == nil {
		removed, err := s.store.PruneObjects(ctx, seen)
		if err != nil {
			firstErr = err
		} else if removed > 0 {
			s.log.Info(ctx, "pruned objects missing remotely", "count", removed)
		}
	}

	s.log.Debug(ctx, "refresh done", "remote", len(remote), "written", written, "skipped", skipped)

	if err := s.reload(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return s.setError(firstErr)
	}
	return nil
}

func validateInput(name string, data map[string]any) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(data) == 0 {
		return ErrEmptyData
	}
	return nil
}

// cacheResult stores what the server returned, falling back to the request
// for fields the response left out.
func (s *objectSyncService) cacheResult(ctx context.Context, got *models.RemoteObject, id, name string, data map[string]any) (*models.RemoteObject, error) {
	obj := *got
	if obj.ID == "" {
		obj.ID = id
	}
	if obj.ID == "" {
		return nil, fmt.Errorf("%w: response has no id", client.ErrDecoding)
	}
	if obj.Name == "" {
		obj.Name = name
	}
	if len(obj.Data) == 0 {
		obj.Data = data
	}

	if _, err := s.store.UpsertObject(ctx, obj); err != nil {
		return &obj, err
	}
	if err := s.reload(ctx); err != nil {
		return &obj, err
	}
	return &obj, nil
}

func (s *objectSyncService) CreateItem(ctx context.Context, name string, data map[string]any) (*models.RemoteObject, error) {
	if err := validateInput(name, data); err != nil {
		return nil, s.setError(err)
	}
	name = strings.TrimSpace(name)

	created, err := s.client.Create(ctx, name, data)
	if err != nil {
		return nil, s.setError(err)
	}

	obj, err := s.cacheResult(ctx, created, "", name, data)
	if err != nil {
		return obj, s.setError(err)
	}
	s.log.Info(ctx, "object created", "id", obj.ID)
	return obj, nil
}

func (s *objectSyncService) UpdateItem(ctx context.Context, id, name string, data map[string]any) (*models.RemoteObject, error) {
	if strings.TrimSpace(id) == "" {
		return nil, s.setError(ErrEmptyID)
	}
	if err := validateInput(name, data); err != nil {
		return nil, s.setError(err)
	}
	name = strings.TrimSpace(name)

	updated, err := s.client.Update(ctx, id, name, data)
	if err != nil {
		return nil, s.setError(err)
	}

	obj, err := s.cacheResult(ctx, updated, id, name, data)
	if err != nil {
		return obj, s.setError(err)
	}
	s.log.Info(ctx, "object updated", "id", obj.ID)
	return obj, nil
}

func (s *objectSyncService) RemoveItem(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return s.setError(ErrEmptyID)
	}

	displayName := fallbackItemName
	cached, err := s.store.ObjectByID(ctx, id)
	if err != nil {
		s.log.Warn(ctx, "cannot read object before delete", "id", id, "error", err)
	} else if cached != nil && cached.Name != "" {
		displayName = cached.Name
	}

	if err := s.client.Delete(ctx, id); err != nil {
		return s.setError(err)
	}

	if _, err := s.store.DeleteObject(ctx, id); err != nil {
		return s.setError(err)
	}
	if err := s.reload(ctx); err != nil {
		return s.setError(err)
	}

	s.notifier.Notify(ctx, models.KindObject, displayName)
	s.log.Info(ctx, "object removed", "id", id)
	return nil
}

func (s *objectSyncService) State() ObjectState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = append([]models.CachedObject(nil), s.state.Items...)
	return st
}

func (s *objectSyncService) FilteredItems() []models.CachedObject {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(s.state.SearchText)
	result := make([]models.CachedObject, 0, len(s.state.Items))
	for _, item := range s.state.Items {
		if needle == "" || strings.Contains(strings.ToLower(item.Name), needle) {
			result = append(result, item)
		}
	}
	return result
}

func (s *objectSyncService) SetSearchText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchText = text
}

func (s *objectSyncService) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = nil
}

func (s *objectSyncService) AutoRefresh(ctx context.Context, interval time.Duration, observe func(ObjectState)) error {
	if interval <= 0 {
		return errors.New("auto refresh interval must be positive")
	}

	tick := func() {
		if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
			s.log.Warn(ctx, "auto refresh failed", "error", err)
		}
		if observe != nil && ctx.Err() == nil {
			observe(s.State())
		}
	}

	tick()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tick()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
