package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/service"
)

var _ service.Dialog = (*Dialog)(nil)

// Dialog answers service dialogs with huh forms. Pressing Esc or Ctrl+C
// cancels the dialog.
//
// In accessible mode every field is a plain line prompt read from the
// configured input. Such prompts cannot be aborted, so prompts and forms
// end with an extra "Submit?" question whose "no" answer cancels.
type Dialog struct {
	accessible bool
	in         io.Reader
	out        io.Writer
}

// DialogOption configures a Dialog.
type DialogOption func(*Dialog)

// WithAccessible switches the dialog to line prompts read from in and
// written to out.
func WithAccessible(in io.Reader, out io.Writer) DialogOption {
	return func(d *Dialog) {
		d.accessible = true
		d.in = &lineReader{r: in}
		d.out = out
	}
}

// NewDialog creates a Dialog. Without options it runs full-screen forms on
// the terminal.
func NewDialog(opts ...DialogOption) *Dialog {
	d := &Dialog{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Confirm asks a yes/no question.
func (d *Dialog) Confirm(ctx context.Context, message string) (bool, error) {
	ok := false
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("Cancel").
		Value(&ok)

	cancelled, err := d.run(ctx, field)
	if err != nil {
		return false, fmt.Errorf("tui.Dialog.Confirm: %w", err)
	}
	return ok && !cancelled, nil
}

// PromptText asks for a single line of text pre-filled with def.
func (d *Dialog) PromptText(ctx context.Context, title, message, def string) (string, bool, error) {
	value := def
	field := huh.NewInput().
		Title(title).
		Description(message).
		Value(&value)

	fields := []huh.Field{field}
	submit := d.submitField()
	if submit != nil {
		fields = append(fields, submit.field)
	}

	cancelled, err := d.run(ctx, fields...)
	if err != nil {
		return "", false, fmt.Errorf("tui.Dialog.PromptText: %w", err)
	}
	if cancelled || !submit.confirmed() {
		return "", false, nil
	}
	return value, true, nil
}

// PromptForm shows form and returns the answers keyed by field ID.
func (d *Dialog) PromptForm(ctx context.Context, form domain.Form) (map[string]string, bool, error) {
	fields, collect := FormFields(form)
	submit := d.submitField()
	if submit != nil {
		fields = append(fields, submit.field)
	}

	cancelled, err := d.run(ctx, fields...)
	if err != nil {
		return nil, false, fmt.Errorf("tui.Dialog.PromptForm: %w", err)
	}
	if cancelled || !submit.confirmed() {
		return nil, false, nil
	}
	return collect(), true, nil
}

// run shows fields as a single group. cancelled is true when the user
// aborted the form.
func (d *Dialog) run(ctx context.Context, fields ...huh.Field) (cancelled bool, err error) {
	form := huh.NewForm(huh.NewGroup(fields...))
	if d.accessible {
		form = form.WithAccessible(true).WithInput(d.in).WithOutput(d.out)
	}

	err = form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return true, nil
	}
	return false, err
}

// submitQuestion is the trailing confirmation of accessible prompts.
type submitQuestion struct {
	field *huh.Confirm
	ok    bool
}

func (d *Dialog) submitField() *submitQuestion {
	if !d.accessible {
		return nil
	}
	q := &submitQuestion{ok: true}
	q.field = huh.NewConfirm().
		Title("Submit?").
		Affirmative("Save").
		Negative("Cancel").
		Value(&q.ok)
	return q
}

func (q *submitQuestion) confirmed() bool {
	return q == nil || q.ok
}

// FormFields converts form into huh fields. collect returns the current
// answers keyed by field ID; call it after the form has run. The form
// title and any problem with the previous answers lead as a note.
func FormFields(form domain.Form) (fields []huh.Field, collect func() map[string]string) {
	values := make([]string, len(form.Fields))
	fields = make([]huh.Field, 0, len(form.Fields)+1)

	if form.Title != "" || form.Problem != "" {
		fields = append(fields, huh.NewNote().Title(form.Title).Description(form.Problem))
	}

	for i, f := range form.Fields {
		values[i] = f.Value
		switch f.Kind {
		case domain.FieldTextarea:
			fields = append(fields, huh.NewText().
				Title(f.Label).
				Placeholder(f.Placeholder).
				Value(&values[i]))
		case domain.FieldSelect:
			opts := make([]huh.Option[string], len(f.Options))
			for j, o := range f.Options {
				opts[j] = huh.NewOption(o.Label, o.Value)
			}
			fields = append(fields, huh.NewSelect[string]().
				Title(f.Label).
				Options(opts...).
				Value(&values[i]))
		default:
			fields = append(fields, huh.NewInput().
				Title(f.Label).
				Placeholder(f.Placeholder).
				Value(&values[i]))
		}
	}

	collect = func() map[string]string {
		out := make(map[string]string, len(form.Fields))
		for i, f := range form.Fields {
			out[f.ID] = values[i]
		}
		return out
	}
	return fields, collect
}

// lineReader hands out input one byte per Read. huh scans every accessible
// field with a fresh bufio.Scanner, and a scanner that buffered ahead would
// swallow the answers meant for the fields after it.
type lineReader struct {
	r io.Reader
}

func (l *lineReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return l.r.Read(p[:1])
}
