// Package coordinator orchestrates the admin view: which modal is open,
// which record is selected, the current drafts and the search term. It
// is the only caller of the remote sync client for list mutations and
// the only component that mutates the record store, always after the
// remote reports success.
package coordinator

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"user-console/internal/model"
	"user-console/internal/store"
	"user-console/internal/validate"
	"user-console/prometheus"
)

// Modal is the single tagged modal state. At most one modal is active
// at a time; closing a modal always clears the selected ID and draft.
type Modal string

const (
	ModalNone   Modal = "none"
	ModalAdd    Modal = "add"
	ModalEdit   Modal = "edit"
	ModalDelete Modal = "delete"
)

// ErrNoActiveModal is returned when a submit or confirm arrives while
// the matching modal is not open.
var ErrNoActiveModal = errors.New("no matching modal is open")

// RemoteClient is the subset of the users API the coordinator drives.
type RemoteClient interface {
	FetchAll(ctx context.Context) ([]model.User, error)
	FetchOne(ctx context.Context, id int) (*model.User, error)
	Create(ctx context.Context, d model.Draft) (*model.User, error)
	Update(ctx context.Context, id int, u model.User) error
	Delete(ctx context.Context, id int) error
}

// maxNotifications bounds the recent-notification buffer in the view.
const maxNotifications = 20

// View is a read-only snapshot of the coordinator state plus the
// records currently visible under the search term.
type View struct {
	Modal         Modal             `json:"modal"`
	SelectedID    int               `json:"selectedId,omitempty"`
	Draft         *model.Draft      `json:"draft,omitempty"`
	FieldErrors   map[string]string `json:"fieldErrors,omitempty"`
	LoadError     string            `json:"loadError,omitempty"`
	SearchTerm    string            `json:"searchTerm,omitempty"`
	Records       []model.User      `json:"records"`
	Notifications []Notification    `json:"notifications"`
}

// Coordinator is single-writer over its own state and over the store.
// Remote calls run with the lock released; an epoch counter bumped on
// every modal transition lets late responses be detected and ignored
// instead of applied to a stale view.
type Coordinator struct {
	mu       sync.Mutex
	store    *store.Store
	remote   RemoteClient
	notifier Notifier
	log      *zap.Logger

	modal       Modal
	selectedID  int
	draft       *model.Draft
	fieldErrors map[string]string
	loadError   string
	searchTerm  string
	recent      []Notification
	epoch       uint64
}

// New creates a coordinator in the Listing state.
func New(s *store.Store, remote RemoteClient, notifier Notifier, log *zap.Logger) *Coordinator {
	return &Coordinator{
		store:    s,
		remote:   remote,
		notifier: notifier,
		log:      log,
		modal:    ModalNone,
	}
}

// Load performs the one-time initial fetch of the record store. On
// failure the store is left empty and the error is reported once; there
// is no retry loop.
func (c *Coordinator) Load(ctx context.Context) error {
	c.mu.Lock()
	c.notify(KindInfo, "Any changes to the data will not persist after refresh because of mock API.")
	c.mu.Unlock()

	users, err := c.remote.FetchAll(ctx)
	if err != nil {
		c.log.Error("initial fetch failed", zap.Error(err))
		c.mu.Lock()
		c.notify(KindError, "Error fetching user data.")
		c.mu.Unlock()
		return err
	}
	c.store.Load(users)
	c.log.Info("record store loaded", zap.Int("count", len(users)))
	return nil
}

// View returns a snapshot of the current state and visible records.
func (c *Coordinator) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Modal:      c.modal,
		SelectedID: c.selectedID,
		LoadError:  c.loadError,
		SearchTerm: c.searchTerm,
		Records:    c.store.FilterByName(c.searchTerm),
	}
	if c.draft != nil {
		d := *c.draft
		v.Draft = &d
	}
	if len(c.fieldErrors) > 0 {
		v.FieldErrors = make(map[string]string, len(c.fieldErrors))
		for k, m := range c.fieldErrors {
			v.FieldErrors[k] = m
		}
	}
	v.Notifications = make([]Notification, 0, len(c.recent))
	v.Notifications = append(v.Notifications, c.recent...)
	return v
}

// SetSearch updates the name filter term.
func (c *Coordinator) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchTerm = term
}

// OpenAdd opens the add-user modal with a fresh draft.
func (c *Coordinator) OpenAdd() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setModal(ModalAdd, 0)
	c.draft = &model.Draft{Username: validate.DeriveUsername("")}
}

// SubmitAdd validates the draft and, when it passes, creates the user
// remotely and appends the confirmed record to the store. Validation
// failure keeps the modal open with field errors; a remote failure
// keeps it open and emits an error notification.
func (c *Coordinator) SubmitAdd(ctx context.Context, d model.Draft) error {
	c.mu.Lock()
	if c.modal != ModalAdd {
		c.mu.Unlock()
		return ErrNoActiveModal
	}

	d.Username = validate.DeriveUsername(d.Name)
	c.draft = &d

	if errs := validate.Draft(d); len(errs) > 0 {
		for field := range errs {
			prometheus.IncValidationFailure(field)
		}
		c.fieldErrors = errs
		c.mu.Unlock()
		return nil
	}
	c.fieldErrors = nil

	epoch := c.epoch
	c.mu.Unlock()

	created, err := c.remote.Create(ctx, d)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.log.Info("discarding stale create response")
		return nil
	}
	if err != nil {
		c.log.Error("remote create failed", zap.Error(err))
		c.notify(KindError, "Failed to add user.")
		return err
	}

	if err := c.store.Append(*created); err != nil {
		c.log.Error("append after confirmed create failed", zap.Int("id", created.ID), zap.Error(err))
		c.notify(KindError, "Failed to add user.")
		return err
	}
	c.setModal(ModalNone, 0)
	c.notify(KindSuccess, "User added successfully, but data won't persist after refresh because of mock API.")
	return nil
}

// OpenEdit opens the edit modal for the given ID and populates its
// draft from the remote record. A fetch failure leaves the modal open
// with a page-level error instead of a draft.
func (c *Coordinator) OpenEdit(ctx context.Context, id int) error {
	c.mu.Lock()
	c.setModal(ModalEdit, id)
	epoch := c.epoch
	c.mu.Unlock()

	u, err := c.remote.FetchOne(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.log.Info("discarding stale edit fetch", zap.Int("id", id))
		return nil
	}
	if err != nil {
		c.log.Error("edit fetch failed", zap.Int("id", id), zap.Error(err))
		c.loadError = "Failed to fetch user data."
		return err
	}

	d := model.DraftOf(*u)
	d.Username = validate.DeriveUsername(d.Name)
	c.draft = &d
	return nil
}

// SubmitEdit validates the draft and, when it passes, updates the user
// remotely and overwrites the stored fields on success. Failure keeps
// the modal open and emits an error notification; the stored record is
// untouched.
func (c *Coordinator) SubmitEdit(ctx context.Context, d model.Draft) error {
	c.mu.Lock()
	if c.modal != ModalEdit {
		c.mu.Unlock()
		return ErrNoActiveModal
	}
	id := c.selectedID

	d.Username = validate.DeriveUsername(d.Name)
	c.draft = &d

	if errs := validate.Draft(d); len(errs) > 0 {
		for field := range errs {
			prometheus.IncValidationFailure(field)
		}
		c.fieldErrors = errs
		c.mu.Unlock()
		return nil
	}
	c.fieldErrors = nil

	full := model.User{ID: id}
	d.ApplyTo(&full)

	epoch := c.epoch
	c.mu.Unlock()

	err := c.remote.Update(ctx, id, full)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.log.Info("discarding stale update response", zap.Int("id", id))
		return nil
	}
	if err != nil {
		c.log.Error("remote update failed", zap.Int("id", id), zap.Error(err))
		c.notify(KindError, "Failed to update user.")
		return err
	}

	if err := c.store.ReplaceFields(id, d); err != nil {
		c.log.Warn("updated record no longer in store", zap.Int("id", id), zap.Error(err))
	}
	c.setModal(ModalNone, 0)
	c.notify(KindSuccess, "User updated successfully!")
	return nil
}

// OpenDelete opens the delete confirmation for the given ID. No remote
// call happens until the confirm.
func (c *Coordinator) OpenDelete(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setModal(ModalDelete, id)
}

// ConfirmDelete deletes the selected user remotely and removes it from
// the store on success. On failure the confirm is simply not actioned.
func (c *Coordinator) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.modal != ModalDelete {
		c.mu.Unlock()
		return ErrNoActiveModal
	}
	id := c.selectedID
	epoch := c.epoch
	c.mu.Unlock()

	err := c.remote.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.log.Info("discarding stale delete response", zap.Int("id", id))
		return nil
	}
	if err != nil {
		c.log.Error("remote delete failed", zap.Int("id", id), zap.Error(err))
		c.notify(KindError, "Failed to delete user.")
		return err
	}

	if err := c.store.Remove(id); err != nil {
		c.log.Warn("deleted record no longer in store", zap.Int("id", id), zap.Error(err))
	}
	c.setModal(ModalNone, 0)
	c.notify(KindSuccess, "User deleted successfully.")
	return nil
}

// Close dismisses any open modal, discarding unsaved draft state.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setModal(ModalNone, 0)
}

// setModal performs every modal transition. Bumping the epoch here is
// what invalidates in-flight remote responses for the previous state.
// Callers must hold the mutex.
func (c *Coordinator) setModal(m Modal, id int) {
	c.modal = m
	c.selectedID = id
	c.draft = nil
	c.fieldErrors = nil
	c.loadError = ""
	c.epoch++
	if m != ModalNone {
		prometheus.IncModalOpen(string(m))
	}
}

// notify forwards to the notifier and records the event in the
// recent-notification buffer surfaced by View.
func (c *Coordinator) notify(kind Kind, message string) {
	if c.notifier != nil {
		c.notifier.Notify(kind, message)
	}
	c.recent = append(c.recent, Notification{Kind: kind, Message: message})
	if len(c.recent) > maxNotifications {
		c.recent = c.recent[len(c.recent)-maxNotifications:]
	}
}
