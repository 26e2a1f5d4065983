package services

import (
	"context"
	"fmt"

	"github.com/docvault-app/docvault/internal/client/api"
	"github.com/docvault-app/docvault/internal/client/repositories/kv"
	"github.com/docvault-app/docvault/internal/common"
)

// AuthService handles the session lifecycle against the document service
// and keeps enough state in the key-value store for the vault to reopen
// under the same owner after a restart.
type AuthService interface {
	// Restore re-installs a persisted session, returning the owner id or
	// "" when no session is stored.
	Restore(ctx context.Context) (string, error)
	Register(ctx context.Context, username, password string) error
	// Login authenticates and returns the owner id.
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	client api.Client
	repo   kv.Repository
}

func NewAuthService(client api.Client, repo kv.Repository) AuthService {
	return &authService{client: client, repo: repo}
}

func (a *authService) Restore(ctx context.Context) (string, error) {
	owner, err := a.repo.Get(ctx, common.KVKeyOwnerID)
	if err != nil {
		return "", fmt.Errorf("%w: read owner: %w", common.ErrPersistence, err)
	}
	token, err := a.repo.Get(ctx, common.KVKeyToken)
	if err != nil {
		return "", fmt.Errorf("%w: read token: %w", common.ErrPersistence, err)
	}

	if len(owner) == 0 || len(token) == 0 {
		return "", nil
	}
	a.client.SetToken(string(token))
	return string(owner), nil
}

func (a *authService) Register(ctx context.Context, username, password string) error {
	return a.client.Register(ctx, username, password)
}

func (a *authService) Login(ctx context.Context, username, password string) (string, error) {
	ownerID, token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return "", fmt.Errorf("login error: %w", err)
	}

	if err := a.repo.Set(ctx, common.KVKeyOwnerID, []byte(ownerID)); err != nil {
		return "", fmt.Errorf("%w: save owner: %w", common.ErrPersistence, err)
	}
	if err := a.repo.Set(ctx, common.KVKeyUsername, []byte(username)); err != nil {
		return "", fmt.Errorf("%w: save username: %w", common.ErrPersistence, err)
	}
	if err := a.repo.Set(ctx, common.KVKeyToken, []byte(token)); err != nil {
		return "", fmt.Errorf("%w: save token: %w", common.ErrPersistence, err)
	}
	return ownerID, nil
}

func (a *authService) Logout(ctx context.Context) error {
	for _, key := range []string{common.KVKeyOwnerID, common.KVKeyUsername, common.KVKeyToken} {
		if err := a.repo.Delete(ctx, key); err != nil {
			return fmt.Errorf("%w: clear session: %w", common.ErrPersistence, err)
		}
	}
	a.client.SetToken("")
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
