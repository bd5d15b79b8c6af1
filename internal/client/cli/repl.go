package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Rename(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	ListDecks(ctx context.Context, args []string) error
	ShowDeck(ctx context.Context, args []string) error
	MyDecks(ctx context.Context) error
	AddDeck(ctx context.Context) error
	EditDeck(ctx context.Context, args []string) error
	RemoveDeck(ctx context.Context, args []string) error
	ListCards(ctx context.Context, args []string) error
	AddCard(ctx context.Context, args []string) error
	EditCard(ctx context.Context, args []string) error
	RemoveCard(ctx context.Context, args []string) error
	Study(ctx context.Context, args []string) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Command errors are printed and the loop keeps going; the REPL never
// terminates on a failed command.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	printlnFn("Welcome to flashdeck CLI (type 'help' for commands)")

	for {
		fmt.Printf("fd %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: decks [page] [search], deck <deck>, mydecks, adddeck, editdeck <deck>, rmdeck <deck>,")
				printlnFn("  cards <deck>, addcard <deck>, editcard <deck> <card>, rmcard <deck> <card>,")
				printlnFn("  study <deck>, whoami, rename, passwd, logout, exit")
			} else {
				printlnFn("Available commands: register, login, decks [page] [search], cards <deck>, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "rename":
			err = a.Rename(ctx)

		case "passwd":
			err = a.ChangePassword(ctx)

		case "decks":
			err = a.ListDecks(ctx, args)

		case "deck":
			err = a.ShowDeck(ctx, args)

		case "mydecks":
			err = a.MyDecks(ctx)

		case "adddeck":
			err = a.AddDeck(ctx)

		case "editdeck":
			err = a.EditDeck(ctx, args)

		case "rmdeck":
			err = a.RemoveDeck(ctx, args)

		case "cards":
			err = a.ListCards(ctx, args)

		case "addcard":
			err = a.AddCard(ctx, args)

		case "editcard":
			err = a.EditCard(ctx, args)

		case "rmcard":
			err = a.RemoveCard(ctx, args)

		case "study":
			err = a.Study(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err)
		}
	}
}
