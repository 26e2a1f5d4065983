package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/docvault-app/docvault/internal/client/models"
)

func (a *App) list(ctx context.Context) {
	if err := a.vault.RefreshDocuments(ctx); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	cats := make(map[string]string)
	for _, c := range a.vault.Categories() {
		cats[c.ID] = c.Name
	}

	for _, d := range a.vault.Documents() {
		category := cats[d.CategoryID]
		if category == "" {
			category = "uncategorized"
		}
		expires := "-"
		if d.ExpiresAt != nil {
			expires = d.ExpiresAt.Format("2006-01-02")
		}
		fmt.Printf("%-40s %-20s %-14s exp:%-11s [%s]\n", d.ID, d.Title, category, expires, d.Status)
	}

	if msg := a.vault.LastError(); msg != "" {
		fmt.Println("warning:", msg)
	}
}

func (a *App) show(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Enter document id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	doc := a.findDocument(id)
	if doc == nil {
		fmt.Println("No such document:", id)
		return
	}

	fmt.Println("Title:      ", doc.Title)
	fmt.Println("Name:       ", doc.Name)
	if doc.Description != "" {
		fmt.Println("Description:", doc.Description)
	}
	if doc.FileName != "" {
		fmt.Printf("File:        %s (%d bytes)\n", doc.FileName, doc.Size)
	}
	if doc.ExpiresAt != nil {
		fmt.Println("Expires:    ", doc.ExpiresAt.Format("2006-01-02"))
	}
	fmt.Println("Status:     ", doc.Status)
}

func (a *App) add(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	name, err := GetSimpleText(a.reader, "Enter document number/name (optional)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	description, err := GetSimpleText(a.reader, "Enter description (optional)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	categoryID, err := a.pickCategory(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	expires, err := GetDate(a.reader, "Enter expiry date", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	id, err := a.vault.AddDocument(ctx, models.Document{
		Title:       title,
		Name:        name,
		Description: description,
		CategoryID:  categoryID,
		ExpiresAt:   expires,
	})
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Println("Created document", id)
}

func (a *App) update(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Enter document id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if a.findDocument(id) == nil {
		fmt.Println("No such document:", id)
		return
	}

	var patch models.DocumentPatch

	title, err := GetSimpleText(a.reader, "New title (empty to keep)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if title != "" {
		patch.Title = &title
	}

	description, err := GetSimpleText(a.reader, "New description (empty to keep)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if description != "" {
		patch.Description = &description
	}

	expires, err := GetDate(a.reader, "New expiry date", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if expires != nil {
		patch.ExpiresAt = expires
	}

	if err := a.vault.UpdateDocument(ctx, id, patch); err != nil {
		log.Printf("Error: %s", err.Error())
	}
}

func (a *App) delete(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Enter document id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.vault.DeleteDocument(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
	}
}

func (a *App) findDocument(id string) *models.Document {
	for i, d := range a.vault.Documents() {
		if d.ID == id {
			return &a.vault.Documents()[i]
		}
	}
	return nil
}

// pickCategory lists the owner's categories and reads one id. An empty line
// leaves the document uncategorized.
func (a *App) pickCategory(ctx context.Context) (string, error) {
	cats := a.vault.Categories()
	if len(cats) == 0 {
		return "", nil
	}
	for _, c := range cats {
		fmt.Printf("  %-40s %s\n", c.ID, c.Name)
	}
	return GetSimpleText(a.reader, "Enter category id (empty for none)", os.Stdout)
}
