package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AddressType separates shipping and billing addresses.
type AddressType string

const (
	// AddressTypeShipping is used to deliver orders.
	AddressTypeShipping AddressType = "shipping"
	// AddressTypeBilling is printed on invoices.
	AddressTypeBilling AddressType = "billing"
)

// IsValid checks if the AddressType is a valid value.
func (t AddressType) IsValid() bool {
	return t == AddressTypeShipping || t == AddressTypeBilling
}

// Address is an entry of a user's address book.
// At most one address per (user, type) has IsDefault set.
type Address struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"-"`
	Name      string      `json:"name"`
	Line1     string      `json:"line1"`
	Zip       string      `json:"zip"`
	City      string      `json:"city"`
	Country   string      `json:"country"`
	Type      AddressType `json:"type"`
	IsDefault bool        `json:"isDefault"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// SingleLine renders the address on one line, as snapshotted on orders.
func (a *Address) SingleLine() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{a.Name, a.Line1, strings.TrimSpace(a.Zip + " " + a.City), a.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, ", ")
}
