package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/docvault-app/docvault/internal/client/models"
)

func (a *App) switchMode(ctx context.Context) {
	fmt.Println("Current mode:", a.vault.Mode())

	raw, err := GetSimpleText(a.reader, "Switch to (remote/local, empty to keep)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if raw == "" {
		return
	}

	if err := a.vault.SetMode(ctx, models.Mode(raw)); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Println("Switched to", a.vault.Mode(), "mode")
}
