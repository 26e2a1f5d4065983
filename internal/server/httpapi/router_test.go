package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault-app/docvault/internal/common"
	"github.com/docvault-app/docvault/internal/dbx"
	"github.com/docvault-app/docvault/internal/logging"
	"github.com/docvault-app/docvault/internal/server/config"
	"github.com/docvault-app/docvault/internal/server/models"
	"github.com/docvault-app/docvault/internal/server/repositories/categories"
	"github.com/docvault-app/docvault/internal/server/repositories/documents"
	"github.com/docvault-app/docvault/internal/server/repositories/repomanager"
	"github.com/docvault-app/docvault/internal/server/repositories/users"
	"github.com/docvault-app/docvault/internal/server/services"
)

type memRepoManager struct {
	users *memUserRepo
	docs  *memDocRepo
	cats  *memCatRepo
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		users: &memUserRepo{byName: map[string]*models.User{}},
		docs:  &memDocRepo{docs: map[string]*models.Document{}},
		cats:  &memCatRepo{cats: map[string]*models.Category{}},
	}
}

var _ repomanager.RepositoryManager = (*memRepoManager)(nil)

func (m *memRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) users.Repository                  { return m.users }
func (m *memRepoManager) Documents(db dbx.DBTX) documents.Repository          { return m.docs }
func (m *memRepoManager) Categories(db dbx.DBTX) categories.Repository        { return m.cats }

type memUserRepo struct {
	byName map[string]*models.User
	nextID int
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := r.byName[user.UserName]; ok {
		return nil, common.ErrConflict
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byName[user.UserName] = user
	return user, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := r.byName[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type memDocRepo struct {
	docs map[string]*models.Document
}

func (r *memDocRepo) ListByUser(ctx context.Context, userID string) ([]models.Document, error) {
	out := []models.Document{}
	for _, d := range r.docs {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *memDocRepo) Get(ctx context.Context, userID, id string) (*models.Document, error) {
	d, ok := r.docs[id]
	if !ok || d.UserID != userID {
		return nil, common.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memDocRepo) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	cp := *doc
	r.docs[doc.ID] = &cp
	return doc, nil
}

func (r *memDocRepo) Update(ctx context.Context, doc *models.Document) error {
	d, ok := r.docs[doc.ID]
	if !ok || d.UserID != doc.UserID {
		return common.ErrNotFound
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *memDocRepo) Delete(ctx context.Context, userID, id string) error {
	d, ok := r.docs[id]
	if !ok || d.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

type memCatRepo struct {
	cats map[string]*models.Category
}

func (r *memCatRepo) ListByUser(ctx context.Context, userID string) ([]models.Category, error) {
	out := []models.Category{}
	for _, c := range r.cats {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCatRepo) Get(ctx context.Context, userID, id string) (*models.Category, error) {
	c, ok := r.cats[id]
	if !ok || c.UserID != userID {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCatRepo) Create(ctx context.Context, cat *models.Category) (*models.Category, error) {
	for _, existing := range r.cats {
		if existing.UserID == cat.UserID && existing.Name == cat.Name {
			return nil, fmt.Errorf("%w: category %q already exists", common.ErrConflict, cat.Name)
		}
	}
	cp := *cat
	r.cats[cat.ID] = &cp
	return cat, nil
}

func (r *memCatRepo) Update(ctx context.Context, cat *models.Category) error {
	c, ok := r.cats[cat.ID]
	if !ok || c.UserID != cat.UserID {
		return common.ErrNotFound
	}
	cp := *cat
	r.cats[cat.ID] = &cp
	return nil
}

func (r *memCatRepo) Delete(ctx context.Context, userID, id string) error {
	c, ok := r.cats[id]
	if !ok || c.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.cats, id)
	return nil
}

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*httptest.Server, *memRepoManager) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret
	cfg.AccessTokenValidityDuration = time.Minute

	rm := newMemRepoManager()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	h := NewHandler(logger,
		services.NewUserService(nil, rm, cfg),
		services.NewDocumentService(nil, rm),
		services.NewCategoryService(nil, rm),
		services.NewPayloadService(nil, rm, cfg),
	)

	ts := httptest.NewServer(h.Router([]byte(testSecret)))
	t.Cleanup(ts.Close)
	return ts, rm
}

func doJSON(t *testing.T, method, url, token string, in any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func registerAndLogin(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/register", "", map[string]string{"username": username, "password": "pw"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/login", "", map[string]string{"username": username, "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var lr struct {
		OwnerID     string `json:"owner_id"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lr))
	require.NotEmpty(t, lr.AccessToken)
	return lr.AccessToken
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegister_DuplicateIsConflict(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/register", "", map[string]string{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/register", "", map[string]string{"username": "alice", "password": "pw"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts, _ := newTestServer(t)
	registerAndLogin(t, ts, "alice")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/login", "", map[string]string{"username": "alice", "password": "wrong"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDocuments_RequireAuth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/documents", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp2 := doJSON(t, http.MethodGet, ts.URL+"/api/documents", "garbage-token", nil)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestDocuments_CRUD(t *testing.T) {
	ts, rm := newTestServer(t)
	token := registerAndLogin(t, ts, "alice")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/documents", token, map[string]any{"title": "Passport"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.NotEmpty(t, created.ID)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/documents", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var docs []models.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	resp.Body.Close()
	require.Len(t, docs, 1)
	assert.Equal(t, "Passport", docs[0].Title)
	assert.False(t, docs[0].CreatedAt.IsZero(), "server must stamp created_at")

	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/documents/"+created.ID, token, map[string]any{"title": "Renewed passport"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, "Renewed passport", rm.docs.docs[created.ID].Title)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/documents/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/documents/"+created.ID, token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDocuments_ScopedPerUser(t *testing.T) {
	ts, _ := newTestServer(t)
	aliceToken := registerAndLogin(t, ts, "alice")
	bobToken := registerAndLogin(t, ts, "bob")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/documents", aliceToken, map[string]any{"title": "Alice's"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/documents", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var docs []models.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	resp.Body.Close()
	assert.Empty(t, docs)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/documents/"+created.ID, bobToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "a foreign document must be indistinguishable from a missing one")
}

func TestCategories_ConflictOnDuplicateName(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerAndLogin(t, ts, "alice")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/categories", token, map[string]any{"name": "Taxes"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/categories", token, map[string]any{"name": "Taxes"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateDocument_MalformedBody(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerAndLogin(t, ts, "alice")

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/documents", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
