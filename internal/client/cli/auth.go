package cli

import (
	"context"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a user name and password and attempts to create a new
// account. A successful registration also establishes a session.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}

	ok, err := a.sess.Register(ctx, userName, password, confirm)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Registration rejected.")
		return nil
	}
	printlnFn("Success!")
	return nil
}

// Login prompts for credentials and tries to authenticate.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	ok, err := a.sess.Login(ctx, userName, password)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Login unsuccessful.")
		return nil
	}
	printlnFn("Login successful.")
	return nil
}

// Logout drops the session and clears every cache so the next user starts
// from a clean slate.
func (a *App) Logout(ctx context.Context) error {
	a.sess.Logout()
	a.decks.Reset()
	a.cards.Reset()
	printlnFn("Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u := a.sess.CurrentUser()
	if u == nil {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn("User:", u.UserName, "id:", u.ID, "decks:", len(u.DeckIDs))
	return nil
}
