package cli

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/docvault-app/docvault/internal/client/api"
	"github.com/docvault-app/docvault/internal/client/cache"
	"github.com/docvault-app/docvault/internal/client/config"
	"github.com/docvault-app/docvault/internal/client/modestore"
	"github.com/docvault-app/docvault/internal/client/repositories/kv"
	"github.com/docvault-app/docvault/internal/client/services"
	"github.com/docvault-app/docvault/internal/client/storage"
	"github.com/docvault-app/docvault/internal/common"
	"github.com/docvault-app/docvault/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the client stack together and drives the interactive loop.
type App struct {
	config *config.Config
	logger logging.Logger
	reader *bufio.Reader

	repo  kv.Repository
	api   api.Client
	auth  services.AuthService
	vault *services.VaultService

	userName string
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, err := storage.InitDatabase(ctx, c.DatabaseFile)
	if err != nil {
		return nil, err
	}

	repo := kv.NewSQLiteRepository(db)

	modes := modestore.New(repo)
	if err := modes.Load(ctx); err != nil {
		logger.Warn(ctx, "could not restore persistence mode, staying remote", "error", err)
	}

	apiClient := api.NewHTTPClient(c.ServerURL, &http.Client{Timeout: c.RequestTimeout})
	snapshots := cache.NewStore(db, logger)

	return &App{
		config: c,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		repo:   repo,
		api:    apiClient,
		auth:   services.NewAuthService(apiClient, repo),
		vault:  services.NewVaultService(apiClient, snapshots, modes, logger),
	}, nil
}

// Run restores a persisted session if one exists and enters the REPL.
func (a *App) Run(ctx context.Context) {
	owner, err := a.auth.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "session restore failed", "error", err)
	} else if owner != "" {
		if name, err := a.repo.Get(ctx, common.KVKeyUsername); err == nil {
			a.userName = string(name)
		}
		if err := a.vault.SetOwner(ctx, owner); err != nil {
			a.logger.Warn(ctx, "initial load failed", "error", err)
		}
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.vault.OwnerID() != ""
}
