package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/docvault-app/docvault/internal/client/models"
	"github.com/docvault-app/docvault/internal/client/repositories/kv"
	"github.com/docvault-app/docvault/internal/common"
	"github.com/docvault-app/docvault/internal/logging"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestLoad_EmptyStore_ReturnsEmptySnapshot(t *testing.T) {
	s := NewStore(setupDB(t), testLogger())

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, snap.Documents)
	require.Empty(t, snap.Categories)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := NewStore(setupDB(t), testLogger())
	ctx := context.Background()

	exp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	docs := []models.Document{
		{ID: "d1", OwnerID: "u1", Title: "Passport", Payload: []byte{1, 2, 3}, Size: 3, ExpiresAt: &exp},
		{ID: "local-abc", OwnerID: "u1", Title: "Draft"},
	}
	cats := []models.Category{{ID: "c1", OwnerID: "u1", Name: "Passport", Icon: "passport"}}

	require.NoError(t, s.Save(ctx, docs, cats))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Documents, 2)
	require.Len(t, snap.Categories, 1)
	require.Equal(t, "d1", snap.Documents[0].ID)
	require.Equal(t, []byte{1, 2, 3}, snap.Documents[0].Payload)
	require.NotNil(t, snap.Documents[0].ExpiresAt)
	require.True(t, snap.Documents[0].ExpiresAt.Equal(exp))
}

func TestSave_NeverPersistsStatus(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db, testLogger())
	ctx := context.Background()

	docs := []models.Document{{ID: "d1", Status: models.StatusExpired}}
	require.NoError(t, s.Save(ctx, docs, nil))

	raw, err := kv.NewSQLiteRepository(db).Get(ctx, common.KVKeyDocuments)
	require.NoError(t, err)

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	_, ok := generic[0]["status"]
	require.False(t, ok, "status must never be written to the snapshot")
}

func TestLoad_CorruptDocumentsEntry_StillLoadsCategories(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx,
		[]models.Document{{ID: "d1"}},
		[]models.Category{{ID: "c1", Name: "Work"}}))

	// corrupt only the documents entry
	repo := kv.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, common.KVKeyDocuments, []byte("{not json")))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, snap.Documents)
	require.Len(t, snap.Categories, 1)
	require.Equal(t, "Work", snap.Categories[0].Name)
}

func TestLoad_ClosedDB_MapsToPersistenceError(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db, testLogger())
	require.NoError(t, db.Close())

	_, err := s.Load(context.Background())
	require.ErrorIs(t, err, common.ErrPersistence)
}

func TestSave_ClosedDB_MapsToPersistenceError(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db, testLogger())
	require.NoError(t, db.Close())

	err := s.Save(context.Background(), nil, nil)
	require.ErrorIs(t, err, common.ErrPersistence)
}
