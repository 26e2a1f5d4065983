// Package models defines client-side data models for the document vault.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalIDPrefix marks identifiers generated on this device that have never
// been assigned by the server.
const LocalIDPrefix = "local-"

// NewLocalID returns a fresh locally-generated document or category id,
// distinguishable from server-assigned ids by its prefix.
func NewLocalID() string {
	return LocalIDPrefix + uuid.NewString()
}

// IsLocalID reports whether id was generated on this device and has not
// been assigned by the server.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// Document is one stored item: metadata plus an embedded, already-encoded
// file payload. The JSON shape is shared with the server API and with the
// local cache snapshot; Status is derived and deliberately excluded from
// both.
type Document struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Payload is the encoded binary content. When the payload has been
	// offloaded to object storage, Payload is empty and StorageKey is set.
	Payload     []byte `json:"payload,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
	StorageKey  string `json:"storage_key,omitempty"`

	// CategoryID is a non-enforced reference; a dangling value is treated
	// as "uncategorized" by the presentation layer.
	CategoryID string `json:"category_id,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// Status is recomputed on every read and never persisted.
	Status DocumentStatus `json:"-"`
}

// Recompute refreshes the derived status against the given instant.
func (d *Document) Recompute(now time.Time) {
	d.Status = Status(d.ExpiresAt, now)
}

// DocumentPatch carries a partial update; nil fields are left unchanged.
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

// Apply merges the patch into d. It does not touch CreatedAt or UpdatedAt;
// stamping is the responsibility of whichever store performs the write.
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
