package models

import "time"

// Category is a named document grouping, unique per owner by name.
type Category struct {
	ID          string    `json:"id"`
	UserID      string    `json:"owner_id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryPatch carries a partial category update; nil fields are unchanged.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply merges the patch into c.
func (c *Category) Apply(p CategoryPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
}
