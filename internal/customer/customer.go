// Package customer defines the customer record, the entry form state, and the
// validate-and-submit cycle shared by the interactive and plain entry paths.
package customer

import (
	"fmt"
	"strings"
)

// ContactMethod is a customer's preferred way of being contacted.
type ContactMethod string

const (
	ContactEmail ContactMethod = "Email"
	ContactPhone ContactMethod = "Phone"
	ContactMail  ContactMethod = "Mail"
)

// DefaultContactMethod is the contact method a fresh form starts with.
const DefaultContactMethod = ContactEmail

// ContactMethods returns the fixed set of contact methods in display order.
func ContactMethods() []ContactMethod {
	return []ContactMethod{ContactEmail, ContactPhone, ContactMail}
}

// ParseContactMethod matches s case-insensitively against the fixed set.
func ParseContactMethod(s string) (ContactMethod, error) {
	s = strings.TrimSpace(s)
	for _, cm := range ContactMethods() {
		if strings.EqualFold(s, string(cm)) {
			return cm, nil
		}
	}
	return "", fmt.Errorf("customer: unknown contact method %q (want Email, Phone or Mail)", s)
}

// Record is one customer's contact information as stored.
// ID is zero until the store assigns one.
type Record struct {
	ID            int64
	Name          string
	Birthday      string
	Email         string
	Phone         string
	Address       string
	ContactMethod string
}
