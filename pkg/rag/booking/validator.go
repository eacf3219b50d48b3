package booking

import (
	"errors"
	"strings"

	"interview-rag-be/pkg/ai/router"

	"github.com/go-playground/validator/v10"
)

// Field names in the order they are reported to the user
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldDate  = "date"
	FieldTime  = "time"
)

var AllFields = []string{FieldName, FieldEmail, FieldDate, FieldTime}

var (
	ErrIncomplete    = errors.New("booking draft is incomplete")
	ErrInvalidFormat = errors.New("booking draft has badly formatted values")
)

var fieldRules = map[string]string{
	FieldName:  "required",
	FieldEmail: "email",
	FieldDate:  "datetime=2006-01-02",
	FieldTime:  "datetime=15:04",
}

// Validator checks a draft in two steps: null fields are missing,
// present fields must match their format.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// MissingFields returns the null fields ordered name, email, date, time.
// A nil draft is missing everything. Formats are not checked here.
func (v *Validator) MissingFields(draft *router.BookingDraft) []string {
	if draft == nil {
		return append([]string(nil), AllFields...)
	}

	values := draftValues(draft)
	var missing []string
	for _, field := range AllFields {
		if values[field] == nil {
			missing = append(missing, field)
		}
	}
	return missing
}

// InvalidFields returns the present fields whose value does not match
// its format, in the same order as MissingFields.
func (v *Validator) InvalidFields(draft *router.BookingDraft) []string {
	if draft == nil {
		return nil
	}

	values := draftValues(draft)
	var invalid []string
	for _, field := range AllFields {
		value := values[field]
		if value != nil && v.validate.Var(strings.TrimSpace(*value), fieldRules[field]) != nil {
			invalid = append(invalid, field)
		}
	}
	return invalid
}

// NewRecord builds a ledger record from a complete, well-formed draft.
func (v *Validator) NewRecord(draft *router.BookingDraft) (Record, error) {
	if len(v.MissingFields(draft)) > 0 {
		return Record{}, ErrIncomplete
	}
	if len(v.InvalidFields(draft)) > 0 {
		return Record{}, ErrInvalidFormat
	}
	return Record{
		Name:  strings.TrimSpace(*draft.Name),
		Email: strings.ToLower(strings.TrimSpace(*draft.Email)),
		Date:  strings.TrimSpace(*draft.Date),
		Time:  strings.TrimSpace(*draft.Time),
	}, nil
}

func draftValues(draft *router.BookingDraft) map[string]*string {
	return map[string]*string{
		FieldName:  draft.Name,
		FieldEmail: draft.Email,
		FieldDate:  draft.Date,
		FieldTime:  draft.Time,
	}
}
