package view

import (
	"context"
	"fmt"

	"github.com/pkordes/rv-planner/internal/domain"
)

// ActionKind names a per-item action a rendered view offers.
type ActionKind string

const (
	ActionToggleVisited   ActionKind = "toggle-visited"
	ActionEdit            ActionKind = "edit"
	ActionDelete          ActionKind = "delete"
	ActionAddToFolder     ActionKind = "add-to-folder"
	ActionAddToCollection ActionKind = "add-to-collection"
	// ActionLogVisit adopts a curated map pin as an already visited record.
	ActionLogVisit ActionKind = "log-visit"
)

// ActionRef is an action attached to a card or pin. Renderers only
// describe actions; performing one goes through an Actions table.
type ActionRef struct {
	Kind  ActionKind `json:"kind"`
	ID    string     `json:"id"`
	Label string     `json:"label"`
}

// ActionFunc performs an action on the record with the given ID.
type ActionFunc func(ctx context.Context, id string) error

// Actions binds action kinds to callbacks.
type Actions map[ActionKind]ActionFunc

// Dispatch runs the callback bound to ref.Kind.
func (a Actions) Dispatch(ctx context.Context, ref ActionRef) error {
	fn, ok := a[ref.Kind]
	if !ok || fn == nil {
		return fmt.Errorf("view.Actions.Dispatch: %w: unsupported action %q", domain.ErrValidation, ref.Kind)
	}
	return fn(ctx, ref.ID)
}
