// Package model holds the GORM structs mapped to database tables.
package model

import (
	"github.com/google/uuid"
)

// newID returns a time-ordered UUID, falling back to a random one.
func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}

	return id
}

// All lists every model, in dependency order, for schema migration.
func All() []any {
	return []any{
		&UserModel{},
		&AuthenticationModel{},
		&RefreshTokenModel{},
		&ProfileModel{},
		&AddressModel{},
		&CategoryModel{},
		&ProductModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
