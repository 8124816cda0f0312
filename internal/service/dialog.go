package service

import (
	"context"

	"github.com/pkordes/rv-planner/internal/domain"
)

// Dialog asks the user something and waits for the answer.
//
// Every method is modal and cancelable: ok is false when the user
// dismissed the dialog, and the calling flow then returns
// domain.ErrCancelled without changing anything. err is reserved for the
// dialog itself failing, or refusing to ask again after a rejected answer.
type Dialog interface {
	Confirm(ctx context.Context, message string) (ok bool, err error)
	PromptText(ctx context.Context, title, message, def string) (value string, ok bool, err error)
	PromptForm(ctx context.Context, form domain.Form) (values map[string]string, ok bool, err error)
}
