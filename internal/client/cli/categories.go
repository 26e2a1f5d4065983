package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/docvault-app/docvault/internal/client/models"
	"github.com/docvault-app/docvault/internal/client/services"
)

func (a *App) listCategories(ctx context.Context) {
	if err := a.vault.RefreshCategories(ctx); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	for _, c := range a.vault.Categories() {
		marker := ""
		if a.vault.IsDefaultCategory(c) {
			marker = " (default)"
		}
		fmt.Printf("%-40s %s%s\n", c.ID, c.Name, marker)
	}
}

func (a *App) addCategory(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Enter category name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	icon, err := GetSimpleText(a.reader, "Enter icon (optional)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	id, err := a.vault.AddCategory(ctx, models.Category{Name: name, Icon: icon})
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Println("Created category", id)
}

func (a *App) deleteCategory(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Enter category id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	for _, c := range a.vault.Categories() {
		if c.ID == id && a.vault.IsDefaultCategory(c) {
			fmt.Println("Default categories cannot be deleted.")
			return
		}
	}

	policyRaw, err := GetSimpleText(a.reader, "Policy: (d)elete documents or (m)ove them", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	var policy services.DeletePolicy
	destID := ""
	switch policyRaw {
	case "d", "delete":
		policy = services.DeletePolicyDelete
	case "m", "move":
		policy = services.DeletePolicyMove
		destID, err = GetSimpleText(a.reader, "Enter destination category id", os.Stdout)
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
	default:
		fmt.Println("Unknown policy:", policyRaw)
		return
	}

	if err := a.vault.DeleteCategory(ctx, id, policy, destID); err != nil {
		log.Printf("Error: %s", err.Error())
	}
}
