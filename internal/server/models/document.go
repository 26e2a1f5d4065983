package models

import "time"

// Document is one stored item scoped to its owner. The JSON tags describe
// the wire shape shared with the client; UserID travels as owner_id.
type Document struct {
	ID          string `json:"id"`
	UserID      string `json:"owner_id"`
	Title       string `json:"title"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Payload     []byte `json:"payload,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
	StorageKey  string `json:"storage_key,omitempty"`

	CategoryID string `json:"category_id,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// DocumentPatch carries a partial update; nil fields are left unchanged.
// Timestamps are stamped by the service, never taken from the caller.
type DocumentPatch struct {
	Title       *string    `json:"title,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Payload     *[]byte    `json:"payload,omitempty"`
	FileName    *string    `json:"file_name,omitempty"`
	ContentType *string    `json:"content_type,omitempty"`
	Size        *int64     `json:"size,omitempty"`
	CategoryID  *string    `json:"category_id,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Apply merges the patch into d.
func (d *Document) Apply(p DocumentPatch) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Payload != nil {
		d.Payload = *p.Payload
	}
	if p.FileName != nil {
		d.FileName = *p.FileName
	}
	if p.ContentType != nil {
		d.ContentType = *p.ContentType
	}
	if p.Size != nil {
		d.Size = *p.Size
	}
	if p.CategoryID != nil {
		d.CategoryID = *p.CategoryID
	}
	if p.ExpiresAt != nil {
		d.ExpiresAt = p.ExpiresAt
	}
}
