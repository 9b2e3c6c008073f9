// Package settings manages the app-level settings document, a gist that
// indexes the user's data gists, plus the local pointers that locate it.
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inovacc/gistvault/internal/gist"
	"github.com/inovacc/gistvault/internal/logging"
	"github.com/inovacc/gistvault/internal/model"
	"github.com/inovacc/gistvault/internal/store"
)

const (
	// FileName is the file holding the settings document.
	FileName = "settings.json"

	// Description is the description given to a new settings gist.
	Description = "App Settings"

	// SettingsIDKey stores the id of the settings gist.
	SettingsIDKey = "settings_gist_id"

	// LastDocumentKey stores the id of the last data gist used.
	LastDocumentKey = "gistId"
)

// DocumentStore is the part of the gist client the service needs.
type DocumentStore interface {
	FetchInto(ctx context.Context, id, fileName string, v any) error
	Update(ctx context.Context, id, fileName string, value any) (*gist.Document, error)
	Create(ctx context.Context, description, fileName string, value any, public bool) (*gist.Document, error)
}

// Service reads and writes the settings document.
type Service struct {
	docs        DocumentStore
	pointers    store.Store
	now         func() time.Time
	logger      *zap.Logger
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l) }
}

// WithConcurrency bounds how many gists Check probes at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a settings service. pointers is the durable local store
// holding the gist ids.
func NewService(docs DocumentStore, pointers store.Store, opts ...Option) *Service {
	s := &Service{
		docs:        docs,
		pointers:    pointers,
		now:         time.Now,
		logger:      zap.NewNop(),
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initialize creates a new private settings gist, records its id and
// returns it.
func (s *Service) Initialize(ctx context.Context) (string, error) {
	doc, err := s.docs.Create(ctx, Description, FileName, model.NewSettings(s.now().UTC()), false)
	if err != nil {
		return "", err
	}

	if err := s.SetSettingsID(doc.ID); err != nil {
		return "", err
	}

	s.logger.Info("settings gist created", zap.String("gist", doc.ID))

	return doc.ID, nil
}

// Load fetches the settings document.
func (s *Service) Load(ctx context.Context) (*model.Settings, error) {
	id, err := s.requireSettingsID()
	if err != nil {
		return nil, err
	}

	var out model.Settings
	if err := s.docs.FetchInto(ctx, id, FileName, &out); err != nil {
		return nil, err
	}

	if out.Gists == nil {
		out.Gists = []model.GistRef{}
	}

	if out.UserSettings == nil {
		out.UserSettings = map[string]any{}
	}

	return &out, nil
}

// Save stamps LastUpdated and writes the settings document. The stamped
// value is returned.
func (s *Service) Save(ctx context.Context, settings *model.Settings) (*model.Settings, error) {
	id, err := s.requireSettingsID()
	if err != nil {
		return nil, err
	}

	stamped := *settings
	stamped.LastUpdated = s.now().UTC()

	if _, err := s.docs.Update(ctx, id, FileName, stamped); err != nil {
		return nil, err
	}

	return &stamped, nil
}

// AddGist registers id in the settings document. An existing entry with the
// same id is replaced in place and gets a fresh AddedAt; members other
// clients added to that entry are kept.
func (s *Service) AddGist(ctx context.Context, id, description string) (*model.Settings, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	ref := model.GistRef{ID: id, Description: description, AddedAt: s.now().UTC()}

	if i := current.IndexOf(id); i >= 0 {
		ref.Extra = current.Gists[i].Extra
		current.Gists[i] = ref
	} else {
		current.Gists = append(current.Gists, ref)
	}

	return s.Save(ctx, current)
}

// RemoveGist drops every entry for id. Removing an absent id still saves.
func (s *Service) RemoveGist(ctx context.Context, id string) (*model.Settings, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	kept := current.Gists[:0]
	for _, g := range current.Gists {
		if g.ID != id {
			kept = append(kept, g)
		}
	}

	current.Gists = kept

	return s.Save(ctx, current)
}

// SetUserSetting sets one key of the free-form user settings map.
func (s *Service) SetUserSetting(ctx context.Context, key string, value any) (*model.Settings, error) {
	if key == "" {
		return nil, errors.New("setting key is required")
	}

	current, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	current.UserSettings[key] = value

	return s.Save(ctx, current)
}

// SettingsID returns the stored settings gist id, or "" when none is set.
func (s *Service) SettingsID() (string, error) {
	return s.pointer(SettingsIDKey)
}

func (s *Service) SetSettingsID(id string) error {
	return s.setPointer(SettingsIDKey, id)
}

// LastDocumentID returns the id of the last data gist used, or "".
func (s *Service) LastDocumentID() (string, error) {
	return s.pointer(LastDocumentKey)
}

func (s *Service) SetLastDocumentID(id string) error {
	return s.setPointer(LastDocumentKey, id)
}

func (s *Service) requireSettingsID() (string, error) {
	id, err := s.SettingsID()
	if err != nil {
		return "", err
	}

	if id == "" {
		return "", ErrNoSettingsGist
	}

	return id, nil
}

func (s *Service) pointer(key string) (string, error) {
	v, err := store.GetString(s.pointers, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}

	return v, nil
}

func (s *Service) setPointer(key, id string) error {
	if id == "" {
		return fmt.Errorf("empty id for %s", key)
	}

	if err := s.pointers.Set(key, []byte(id)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	return nil
}
