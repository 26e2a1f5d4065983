package models

import "time"

// Category is a named grouping of documents.
type Category struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	Icon        string     `json:"icon,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
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

// DefaultCategories is the fixed set created for a new owner before their
// category list is considered loaded. Order matters: bootstrap creates them
// sequentially in this order.
var DefaultCategories = []Category{
	{Name: "Passport", Icon: "passport"},
	{Name: "Driver License", Icon: "car"},
	{Name: "ID Card", Icon: "badge"},
	{Name: "Insurance", Icon: "shield"},
	{Name: "Medical", Icon: "heart"},
	{Name: "Education", Icon: "school"},
	{Name: "Work", Icon: "briefcase"},
	{Name: "Other", Icon: "folder"},
}

// IsDefaultCategory reports whether c carries one of the bootstrap names.
// This is a capability check for the presentation layer; the engine itself
// does not refuse operations on default categories.
func IsDefaultCategory(c Category) bool {
	for _, d := range DefaultCategories {
		if c.Name == d.Name {
			return true
		}
	}
	return false
}
