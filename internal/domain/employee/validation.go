package employee

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/mohammadpnp/employee-registry/pkg/cpf"
)

const maxEmailLen = 254

// ConflictKey is the error key used when a row's e-mail and CPF match
// two different existing employees.
const ConflictKey = "email_or_cpf"

// ConflictMessage is the human-readable text recorded for that case.
const ConflictMessage = "CPF and e-mail conflict for different employees."

// ValidationErrors maps a field name to its list of human-readable
// rejection messages.
type ValidationErrors map[string][]string

// Add appends a message under field.
func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

// Empty reports whether no field has been rejected.
func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

// RowInput carries the five positional fields of one import row.
type RowInput struct {
	Name  string
	Email string
	CPF   string
	City  string
	State string
}

// ValidateRow runs the format-level rules: every field required and
// non-empty, e-mail syntactically valid, CPF check digits correct.
// Uniqueness is a repository concern and is layered on by the caller.
func ValidateRow(in RowInput) ValidationErrors {
	errs := ValidationErrors{}

	requireField(errs, "name", in.Name)
	requireField(errs, "city", in.City)
	requireField(errs, "state", in.State)

	if requireField(errs, "email", in.Email) {
		// a bare addr-spec only: display-name forms are not valid input
		if parsed, err := mail.ParseAddress(in.Email); err != nil || parsed.Address != in.Email || len(in.Email) > maxEmailLen {
			errs.Add("email", "The email must be a valid e-mail address.")
		}
	}

	if requireField(errs, "cpf", in.CPF) {
		if !cpf.Valid(in.CPF) {
			errs.Add("cpf", "The cpf must be a valid CPF.")
		}
	}

	return errs
}

// TakenMessage is the uniqueness rejection text for a field.
func TakenMessage(field string) string {
	return fmt.Sprintf("The %s has already been taken.", field)
}

func requireField(errs ValidationErrors, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, fmt.Sprintf("The %s field is required.", field))
		return false
	}
	return true
}
