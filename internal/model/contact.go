package model

import (
	"strings"
	"time"
)

// ContactSeparator separates the values of a joined phone or email list.
const ContactSeparator = "; "

// Contact holds the fields that phones and emails share. Used is tri-state: nil means that
// nobody knows whether the contact still works.
type Contact struct {
	HumanId  *int64     `json:"human_id,omitempty"  db:"human_id"`
	LastUsed *time.Time `json:"last_used,omitempty" db:"last_used"`
	Used     *bool      `json:"used,omitempty"      db:"used"`
}

// Unused reports whether the contact was explicitly marked as not used.
func (c Contact) Unused() bool {
	return c.Used != nil && !*c.Used
}

// Phone is a phone number of a human. Numbers are unique across all humans.
type Phone struct {
	Id int64 `json:"id" db:"id"`
	Contact
	Number *string `json:"number,omitempty" db:"number" binding:"omitempty,phone,max=20" create:"required"`
}

// Email is an email address of a human. Addresses are unique across all humans.
type Email struct {
	Id int64 `json:"id" db:"id"`
	Contact
	Address *string `json:"address,omitempty" db:"address" binding:"omitempty,email,max=254" create:"required"`
}

// JoinPhones returns the numbers of all phones that are not marked as unused, in the given order.
func JoinPhones(phones []Phone) string {
	return joinUsed(phones, func(p Phone) *string { return p.Number })
}

// JoinEmails returns the addresses of all emails that are not marked as unused, in the given
// order.
func JoinEmails(emails []Email) string {
	return joinUsed(emails, func(e Email) *string { return e.Address })
}

func joinUsed[T interface{ Unused() bool }](items []T, value func(T) *string) string {
	values := make([]string, 0, len(items))
	for _, item := range items {
		if item.Unused() {
			continue
		}
		if v := value(item); v != nil {
			values = append(values, *v)
		}
	}
	return strings.Join(values, ContactSeparator)
}
