package domain

// FieldKind selects the input widget used for a form field.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
	FieldSelect   FieldKind = "select"
)

// Option is one choice of a select field.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Field describes one input of a modal form.
type Field struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Placeholder string    `json:"placeholder,omitempty"`
	Value       string    `json:"value,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

// Form is a modal form request. Problem is set when the form is shown
// again because the previous answers were rejected.
type Form struct {
	Title   string  `json:"title"`
	Problem string  `json:"problem,omitempty"`
	Fields  []Field `json:"fields"`
}
