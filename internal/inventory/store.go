// Package inventory holds the client's authoritative asset collection, the
// form draft being edited and the loading/error state around them.
//
// The collection is always the server's view: every successful create,
// update or delete is followed by a full refresh instead of a local patch.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"asset-inventory/internal/assetclient"
	"asset-inventory/internal/logger"
	"asset-inventory/internal/models"
)

// ConfirmDeletePrompt is the question put to the Confirmer before a delete
const ConfirmDeletePrompt = "Are you sure you want to delete this asset?"

// User facing notifications
const (
	MsgAdded        = "Asset added successfully!"
	MsgUpdated      = "Asset updated successfully!"
	MsgDeleted      = "Asset deleted successfully!"
	MsgFetchFailed  = "Failed to fetch assets"
	MsgDeleteFailed = "Failed to delete asset"
)

// Repository is the remote asset store as seen by the Store
type Repository interface {
	List(ctx context.Context) ([]models.Asset, error)
	Create(ctx context.Context, draft models.Asset) (models.Asset, error)
	Update(ctx context.Context, id string, draft models.Asset) (models.Asset, error)
	Delete(ctx context.Context, id string) error
}

// Notifier receives user facing outcome messages
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// Confirmer is asked before an asset is deleted
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

// Confirm calls f
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Failure(string) {}

// Option configures a Store
type Option func(*Store)

// WithNotifier sets where outcome messages go
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notify = n }
}

// WithLogger sets the store logger
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock overrides time.Now, used for the default draft date
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the single owner of the asset collection and the form draft.
// It is safe for concurrent use; the lock is never held across a network call.
type Store struct {
	repo   Repository
	notify Notifier
	log    logger.Logger
	now    func() time.Time

	mu          sync.Mutex
	assets      []models.Asset
	draft       models.Asset
	fieldErrors models.FieldErrors
	editingID   string
	refreshing  int
	submitting  bool
	lastErr     error
	// refreshSeq orders overlapping refreshes so an older response never
	// overwrites a newer one
	refreshSeq uint64
	appliedSeq uint64
}

// NewStore creates an empty store backed by repo
func NewStore(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		notify: nopNotifier{},
		log:    logger.Nop(),
		now:    time.Now,
		assets: []models.Asset{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.draft = models.EmptyDraft(s.now())
	return s
}

// Assets returns a snapshot of the collection
func (s *Store) Assets() []models.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Asset, len(s.assets))
	copy(out, s.assets)
	return out
}

// Find returns the asset with id from the current collection
func (s *Store) Find(id string) (models.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assets {
		if a.ID == id {
			return a, true
		}
	}
	return models.Asset{}, false
}

// Draft returns the current form values
func (s *Store) Draft() models.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// FieldErrors returns the messages of the last failed validation
func (s *Store) FieldErrors() models.FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldErrors.Clone()
}

// EditingID returns the id being edited, "" when creating a new asset
func (s *Store) EditingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID
}

// Loading reports whether a refresh is in flight
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing > 0
}

// Submitting reports whether a submit is in flight
func (s *Store) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// LastError returns the error of the most recent failed operation, nil
// after a later success.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// SetDraft replaces the form values. Any id on d is ignored.
func (s *Store) SetDraft(d models.Asset) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d.Draft()
	return s
}

// SetName sets the draft name
func (s *Store) SetName(name string) *Store {
	return s.editDraft(func(d *models.Asset) { d.Name = name })
}

// SetSerialNo sets the draft serial number
func (s *Store) SetSerialNo(serialNo string) *Store {
	return s.editDraft(func(d *models.Asset) { d.SerialNo = serialNo })
}

// SetAssignDate sets the draft assignment date (YYYY-MM-DD)
func (s *Store) SetAssignDate(date string) *Store {
	return s.editDraft(func(d *models.Asset) { d.AssignDate = date })
}

// SetCategory sets the draft category
func (s *Store) SetCategory(c models.Category) *Store {
	return s.editDraft(func(d *models.Asset) { d.Category = c })
}

func (s *Store) editDraft(fn func(d *models.Asset)) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.draft)
	return s
}

// Refresh replaces the collection with the store's current listing. On
// failure the collection is left as it was.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.refreshSeq++
	seq := s.refreshSeq
	s.refreshing++
	s.mu.Unlock()

	assets, err := s.repo.List(ctx)

	s.mu.Lock()
	s.refreshing--
	if err != nil {
		if ctx.Err() != nil {
			// caller went away, nobody is listening
			s.mu.Unlock()
			return ctx.Err()
		}
		s.lastErr = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		failure := s.lastErr
		s.mu.Unlock()

		s.log.Warnw("refresh failed", "error", err)
		s.notify.Failure(MsgFetchFailed)
		return failure
	}
	if seq > s.appliedSeq {
		s.appliedSeq = seq
		s.assets = assets
		if s.assets == nil {
			s.assets = []models.Asset{}
		}
	}
	s.lastErr = nil
	count := len(s.assets)
	s.mu.Unlock()

	s.log.Debugw("collection refreshed", "assets", count)
	return nil
}

// Submit validates the draft and sends it to the store: an update when an
// asset is being edited, a create otherwise.
//
// An invalid draft returns *ValidationError without any request. A remote
// failure keeps the draft and editing id so the user can retry. On success
// the draft is reset, editing ends and the collection is refreshed; a
// failed refresh is reported through the notifier and LastError, not as a
// submit failure.
//
// A Submit issued while another is still pending is rejected with
// ErrSubmitInFlight.
func (s *Store) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	draft := s.draft
	if fields := models.Validate(draft); fields != nil {
		s.fieldErrors = fields
		s.mu.Unlock()
		return &ValidationError{Fields: fields.Clone()}
	}
	s.fieldErrors = nil
	editingID := s.editingID
	s.submitting = true
	s.mu.Unlock()

	var err error
	if editingID != "" {
		_, err = s.repo.Update(ctx, editingID, draft)
	} else {
		_, err = s.repo.Create(ctx, draft)
	}

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		if ctx.Err() != nil {
			s.mu.Unlock()
			return ctx.Err()
		}
		var rerr *assetclient.RemoteError
		if errors.As(err, &rerr) && len(rerr.Fields) > 0 {
			s.fieldErrors = rerr.Fields.Clone()
		}
		s.lastErr = err
		s.mu.Unlock()

		s.log.Warnw("submit failed", "editing_id", editingID, "error", err)
		s.notify.Failure(assetclient.MessageOf(err))
		return err
	}
	s.draft = models.EmptyDraft(s.now())
	s.editingID = ""
	s.fieldErrors = nil
	s.lastErr = nil
	s.mu.Unlock()

	if editingID != "" {
		s.log.Infow("asset updated", "id", editingID)
		s.notify.Success(MsgUpdated)
	} else {
		s.log.Infow("asset created", "serial_no", draft.SerialNo)
		s.notify.Success(MsgAdded)
	}

	_ = s.Refresh(ctx)
	return nil
}

// SubmitDraft sets the draft and submits it
func (s *Store) SubmitDraft(ctx context.Context, d models.Asset) error {
	s.SetDraft(d)
	return s.Submit(ctx)
}

// BeginEdit loads asset into the draft and marks it as being edited
func (s *Store) BeginEdit(asset models.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = asset.Draft()
	s.editingID = asset.ID
	s.fieldErrors = nil
}

// CancelEdit discards the draft and leaves edit mode
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = models.EmptyDraft(s.now())
	s.editingID = ""
	s.fieldErrors = nil
}

// Remove deletes the asset with id once confirm agrees, then refreshes.
// Without confirmation nothing is sent and ErrRemoveDeclined is returned.
// The draft and editing id are left alone even when id is being edited.
// As with Submit, a failed refresh after a successful delete is reported
// through the notifier and LastError only.
func (s *Store) Remove(ctx context.Context, id string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(ConfirmDeletePrompt) {
		return ErrRemoveDeclined
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		failure := fmt.Errorf("%w: %w", ErrDeleteFailed, err)
		s.mu.Lock()
		s.lastErr = failure
		s.mu.Unlock()

		s.log.Warnw("delete failed", "id", id, "error", err)
		s.notify.Failure(MsgDeleteFailed)
		return failure
	}

	s.log.Infow("asset deleted", "id", id)
	s.notify.Success(MsgDeleted)
	_ = s.Refresh(ctx)
	return nil
}
