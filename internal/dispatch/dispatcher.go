// Package dispatch turns user intents (add, edit, delete) into store calls.
package dispatch

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/apperror"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// Action is one of the supported user intents.
type Action int

const (
	Add Action = iota + 1
	Edit
	Delete
)

func (a Action) String() string {
	switch a {
	case Add:
		return "add"
	case Edit:
		return "edit"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction maps the textual name of an action back to it.
func ParseAction(s string) (Action, error) {
	for _, a := range []Action{Add, Edit, Delete} {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Store is the subset of the bookmark store the dispatcher drives.
type Store interface {
	Get(id string) (domain.Bookmark, bool)
	Create(name, url, description string) domain.Bookmark
	Update(id, name, url, description string) (domain.Bookmark, error)
	Delete(id string) bool
}

// Form collects bookmark fields from the user and owns their validation.
// existing is nil when adding. ok is false when the user cancelled.
type Form interface {
	Fill(ctx context.Context, action Action, existing *domain.Bookmark) (data domain.FormData, ok bool, err error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Request is one user intent. ID is ignored for Add.
type Request struct {
	Action Action
	ID     string
}

// Result reports what a dispatched request did.
type Result struct {
	Action   Action          `json:"-"`
	Bookmark domain.Bookmark `json:"bookmark"`
	Removed  bool            `json:"removed,omitempty"`
	Canceled bool            `json:"canceled,omitempty"`
}

type handler func(ctx context.Context, req Request) (Result, error)

// Dispatcher routes requests to typed handlers bound at construction.
type Dispatcher struct {
	store    Store
	form     Form
	confirm  Confirmer
	logger   logger.Logger
	handlers map[Action]handler
}

func New(store Store, form Form, confirm Confirmer, log logger.Logger) *Dispatcher {
	d := &Dispatcher{
		store:   store,
		form:    form,
		confirm: confirm,
		logger:  log,
	}
	d.handlers = map[Action]handler{
		Add:    d.add,
		Edit:   d.edit,
		Delete: d.delete,
	}
	return d
}

// WithForm returns a dispatcher sharing the store but collecting fields from f.
func (d *Dispatcher) WithForm(f Form) *Dispatcher {
	return New(d.store, f, d.confirm, d.logger)
}

// WithConfirmer returns a dispatcher sharing the store but asking c for confirmation.
func (d *Dispatcher) WithConfirmer(c Confirmer) *Dispatcher {
	return New(d.store, d.form, c, d.logger)
}

// Dispatch runs the handler for req.Action.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	h, ok := d.handlers[req.Action]
	if !ok {
		return Result{}, fmt.Errorf("dispatch: unknown action %s", req.Action)
	}
	res, err := h(ctx, req)
	res.Action = req.Action
	if err != nil {
		return res, fmt.Errorf("%s bookmark: %w", req.Action, err)
	}
	return res, nil
}

// ConfirmMessage is the question asked before deleting b.
func ConfirmMessage(b domain.Bookmark) string {
	return `Are you sure you want to delete the bookmark "` + b.Name + `"?`
}

func (d *Dispatcher) add(ctx context.Context, _ Request) (Result, error) {
	data, ok, err := d.form.Fill(ctx, Add, nil)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Canceled: true}, nil
	}

	b := d.store.Create(data.Name, data.URL, data.Description)
	d.logger.Info("bookmark added", logger.String("id", b.ID), logger.String("name", b.Name))
	return Result{Bookmark: b}, nil
}

func (d *Dispatcher) edit(ctx context.Context, req Request) (Result, error) {
	existing, found := d.store.Get(req.ID)
	if !found {
		return Result{}, apperror.NotFound("bookmark", req.ID)
	}

	data, ok, err := d.form.Fill(ctx, Edit, &existing)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Bookmark: existing, Canceled: true}, nil
	}

	b, err := d.store.Update(req.ID, data.Name, data.URL, data.Description)
	if err != nil {
		return Result{}, err
	}
	d.logger.Info("bookmark updated", logger.String("id", b.ID), logger.String("name", b.Name))
	return Result{Bookmark: b}, nil
}

func (d *Dispatcher) delete(ctx context.Context, req Request) (Result, error) {
	existing, found := d.store.Get(req.ID)
	if !found {
		return Result{}, apperror.NotFound("bookmark", req.ID)
	}

	msg := ConfirmMessage(existing)
	yes, err := d.confirm.Confirm(ctx, msg)
	if err != nil {
		return Result{}, err
	}
	if !yes {
		return Result{Bookmark: existing, Canceled: true}, apperror.Declined("deletion of " + existing.Name + " declined")
	}

	removed := d.store.Delete(req.ID)
	d.logger.Info("bookmark deleted", logger.String("id", req.ID), logger.Bool("removed", removed))
	return Result{Bookmark: existing, Removed: removed}, nil
}
