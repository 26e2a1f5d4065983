package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	s += string(a.vault.Mode())
	return fmt.Sprintf("(%s)", s)
}

// Root runs the interactive command loop until EOF or exit.
func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to DocVault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("dv %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: (l)ist, show, add, update, delete, attach, export, cats, addcat, delcat, mode, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, mode, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			if err := a.Logout(ctx); err != nil {
				log.Printf("Error: %s", err.Error())
			}
		case "l", "list":
			a.list(ctx)
		case "show":
			a.show(ctx)
		case "add":
			a.add(ctx)
		case "update":
			a.update(ctx)
		case "delete":
			a.delete(ctx)
		case "attach":
			a.attach(ctx)
		case "export":
			a.export(ctx)
		case "cats":
			a.listCategories(ctx)
		case "addcat":
			a.addCategory(ctx)
		case "delcat":
			a.deleteCategory(ctx)
		case "mode":
			a.switchMode(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
