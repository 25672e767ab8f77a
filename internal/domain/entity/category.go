package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node of the catalog forest. A nil ParentID marks a root.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ParentID  *uuid.UUID `json:"parentId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// IsRoot reports whether the category has no declared parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
