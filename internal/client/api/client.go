// Package api implements the remote store adapter: an HTTP/JSON client of
// the docvault document service. All operations are scoped server-side to
// the owner carried by the access token; the adapter itself is a stateless
// translator and never caches collections.
package api

import (
	"context"

	"github.com/docvault-app/docvault/internal/client/models"
)

// PresignedUpload is a one-shot upload grant for a document payload.
type PresignedUpload struct {
	URL        string `json:"url"`
	StorageKey string `json:"storage_key"`
}

// Client is the remote document database as seen by the reconciliation
// engine. Failures surface as errors from the common taxonomy:
// network/5xx problems as ErrRemoteUnavailable, missing/expired credentials
// as ErrNotAuthenticated.
type Client interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (ownerID string, token string, err error)
	Ping(ctx context.Context) error

	// SetToken installs the bearer token used on subsequent calls.
	SetToken(token string)

	ListDocuments(ctx context.Context) ([]models.Document, error)
	CreateDocument(ctx context.Context, doc models.Document) (string, error)
	UpdateDocument(ctx context.Context, id string, patch models.DocumentPatch) error
	DeleteDocument(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, cat models.Category) (string, error)
	UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) error
	DeleteCategory(ctx context.Context, id string) error

	PresignPayloadPut(ctx context.Context, docID string) (*PresignedUpload, error)
	PresignPayloadGet(ctx context.Context, docID string) (string, error)
}
