// Package form holds field-keyed form state with required-field validation
// on submit.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/notify"
)

var ErrUnknownField = errors.New("unknown form field")

// Field declares one form input.
type Field struct {
	Name     string
	Required bool
}

// Messages are the notification texts of a form.
type Messages struct {
	Invalid string
	Success string
}

// Schema is the fixed shape of a form.
type Schema struct {
	Name     string
	Fields   []Field
	Messages Messages
}

// ValidationError lists the required fields that were empty on submit.
type ValidationError struct {
	Form    string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s form: required fields empty: %s", e.Form, strings.Join(e.Missing, ", "))
}

// Form is the current value of every declared field. It is not safe for
// concurrent use.
type Form struct {
	schema   Schema
	values   map[string]string
	notifier notify.Notifier
}

// New creates a form with every field set to "". A nil notifier discards
// notifications.
func New(schema Schema, notifier notify.Notifier) *Form {
	if notifier == nil {
		notifier = notify.Nop
	}
	f := &Form{schema: schema, notifier: notifier}
	f.reset()
	return f
}

func (f *Form) reset() {
	f.values = make(map[string]string, len(f.schema.Fields))
	for _, field := range f.schema.Fields {
		f.values[field.Name] = ""
	}
}

// Name returns the schema name.
func (f *Form) Name() string {
	return f.schema.Name
}

// Fields returns the declared fields in order.
func (f *Form) Fields() []Field {
	out := make([]Field, len(f.schema.Fields))
	copy(out, f.schema.Fields)
	return out
}

// Set updates one field and leaves the others untouched.
func (f *Form) Set(field, value string) error {
	if _, ok := f.values[field]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	f.values[field] = value
	return nil
}

// Get returns the value of field.
func (f *Form) Get(field string) (string, error) {
	v, ok := f.values[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return v, nil
}

// Values returns a copy of the field mapping.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Validate returns a *ValidationError when a required field is empty.
// It neither notifies nor changes state.
func (f *Form) Validate() error {
	var missing []string
	for _, field := range f.schema.Fields {
		if field.Required && f.values[field.Name] == "" {
			missing = append(missing, field.Name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Form: f.schema.Name, Missing: missing}
	}
	return nil
}

// Reject emits the form's error notification.
func (f *Form) Reject() {
	f.notifier.Notify(notify.Error(f.schema.Messages.Invalid))
}

// Submit validates the form. On failure it emits an error notification and
// returns the *ValidationError, leaving the values as they were. On success
// it emits one success notification, resets every field to "" and returns
// the values that were submitted.
func (f *Form) Submit() (map[string]string, error) {
	if err := f.Validate(); err != nil {
		f.Reject()
		return nil, err
	}
	submitted := f.Values()
	f.notifier.Notify(notify.Success(f.schema.Messages.Success))
	f.reset()
	return submitted, nil
}
