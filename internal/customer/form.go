package customer

import "strings"

// Form holds the raw field values of the entry form.
type Form struct {
	Name          string
	Birthday      string
	Email         string
	Phone         string
	Address       string
	ContactMethod string
}

// NewForm returns an empty form with the default contact method selected.
func NewForm() Form {
	return Form{ContactMethod: string(DefaultContactMethod)}
}

// Normalize returns a copy of f with leading and trailing whitespace trimmed
// from every field.
func (f Form) Normalize() Form {
	return Form{
		Name:          strings.TrimSpace(f.Name),
		Birthday:      strings.TrimSpace(f.Birthday),
		Email:         strings.TrimSpace(f.Email),
		Phone:         strings.TrimSpace(f.Phone),
		Address:       strings.TrimSpace(f.Address),
		ContactMethod: strings.TrimSpace(f.ContactMethod),
	}
}

// Reset returns the cleared form shown after a successful submit.
func (f Form) Reset() Form {
	return NewForm()
}

// Record converts the form into a Record without an ID.
// Callers normalize first; Record copies values as-is.
func (f Form) Record() Record {
	return Record{
		Name:          f.Name,
		Birthday:      f.Birthday,
		Email:         f.Email,
		Phone:         f.Phone,
		Address:       f.Address,
		ContactMethod: f.ContactMethod,
	}
}
