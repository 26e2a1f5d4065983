package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/docvault-app/docvault/internal/client/models"
	"github.com/docvault-app/docvault/internal/common"
)

// HTTPClient talks JSON to the document service. The embedded http.Client's
// own timeout behavior is inherited as-is; this adapter imposes none of its
// own.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	token   string
}

func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	OwnerID     string `json:"owner_id"`
	AccessToken string `json:"access_token"`
}

type createResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// do executes one JSON round-trip. A nil in sends no body; a nil out
// discards the response body.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapStatus(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// mapStatus converts an HTTP error response into the shared taxonomy.
func (c *HTTPClient) mapStatus(resp *http.Response) error {
	var er errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)
	detail := er.Error
	if detail == "" {
		detail = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrNotAuthenticated, detail)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, detail)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, detail)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrConflict, detail)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrInvalidArgument, detail)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", common.ErrRemoteUnavailable, detail)
	default:
		return fmt.Errorf("unexpected response: %s", detail)
	}
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/register", registerRequest{Username: username, Password: password}, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", registerRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", "", err
	}
	c.token = resp.AccessToken
	return resp.OwnerID, resp.AccessToken, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *HTTPClient) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := c.do(ctx, http.MethodGet, "/api/documents", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *HTTPClient) CreateDocument(ctx context.Context, doc models.Document) (string, error) {
	var resp createResponse
	if err := c.do(ctx, http.MethodPost, "/api/documents", doc, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *HTTPClient) UpdateDocument(ctx context.Context, id string, patch models.DocumentPatch) error {
	return c.do(ctx, http.MethodPatch, "/api/documents/"+id, patch, nil)
}

func (c *HTTPClient) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/documents/"+id, nil, nil)
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *HTTPClient) CreateCategory(ctx context.Context, cat models.Category) (string, error) {
	var resp createResponse
	if err := c.do(ctx, http.MethodPost, "/api/categories", cat, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *HTTPClient) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) error {
	return c.do(ctx, http.MethodPatch, "/api/categories/"+id, patch, nil)
}

func (c *HTTPClient) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+id, nil, nil)
}

func (c *HTTPClient) PresignPayloadPut(ctx context.Context, docID string) (*PresignedUpload, error) {
	var resp PresignedUpload
	if err := c.do(ctx, http.MethodPost, "/api/documents/"+docID+"/payload/put-url", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) PresignPayloadGet(ctx context.Context, docID string) (string, error) {
	var resp PresignedUpload
	if err := c.do(ctx, http.MethodGet, "/api/documents/"+docID+"/payload/get-url", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
