package cli

import (
	"context"
	"os"
)

// Rename changes the display name of the logged-in user.
func (a *App) Rename(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "New user name", os.Stdout)
	if err != nil {
		return err
	}

	ok, err := a.sess.UpdateUserName(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Rename rejected.")
		return nil
	}
	printlnFn("Renamed.")
	return nil
}

// ChangePassword asks for the old and new passwords and submits the change.
func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := getPassword("Current password", os.Stdout)
	if err != nil {
		return err
	}
	newPassword, err := getPassword("New password", os.Stdout)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm new password", os.Stdout)
	if err != nil {
		return err
	}

	ok, err := a.sess.UpdatePassword(ctx, oldPassword, newPassword, confirm)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Password change rejected.")
		return nil
	}
	printlnFn("Password changed.")
	return nil
}
