package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/service"
)

// requestDialog answers service dialogs from what the client already sent.
// A browser shows the question itself and repeats the request with
// ?confirm=true; form answers travel in the request body.
type requestDialog struct {
	confirmed bool
	answers   map[string]string

	// question is the last confirmation the service asked for.
	question string
}

var _ service.Dialog = (*requestDialog)(nil)

func (d *requestDialog) Confirm(_ context.Context, message string) (bool, error) {
	d.question = message
	return d.confirmed, nil
}

// PromptText answers from the "value" answer; there is no second round
// trip, so a missing answer cancels.
func (d *requestDialog) PromptText(_ context.Context, _, _, def string) (string, bool, error) {
	v, ok := d.answers["value"]
	if !ok {
		return def, false, nil
	}
	return v, true, nil
}

// PromptForm answers with the submitted values. A form shown again with a
// problem means the submitted values were rejected; that becomes a
// validation error instead of a loop.
func (d *requestDialog) PromptForm(_ context.Context, form domain.Form) (map[string]string, bool, error) {
	if form.Problem != "" {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrValidation, form.Problem)
	}
	answers := make(map[string]string, len(d.answers))
	for k, v := range d.answers {
		answers[k] = v
	}
	return answers, true, nil
}

// respondDialogError is respondError for flows that went through a
// requestDialog: an unconfirmed request gets the question back so the
// client can ask the user.
func respondDialogError(w http.ResponseWriter, r *http.Request, err error, dlg *requestDialog) {
	if errors.Is(err, domain.ErrCancelled) && dlg.question != "" {
		writeError(w, http.StatusConflict, "cancelled", dlg.question)
		return
	}
	respondError(w, r, err)
}
