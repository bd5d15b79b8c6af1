package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flashdeck/flashdeck-go/internal/client/models"
)

var errUsage = errors.New("missing argument, see 'help'")

func printDeck(d *models.Deck) {
	printlnFn(fmt.Sprintf("%s  %s  [%s]  cards: %d", d.ID, d.Name, strings.Join(d.Tags, ", "), d.CardsCount))
}

// promptAsset asks for an optional image file and loads it. An empty answer
// means no image.
func (a *App) promptAsset() (*models.Asset, error) {
	path, err := getSimpleText(a.reader, "Image file (empty to skip)", os.Stdout)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &models.Asset{Name: filepath.Base(path), Content: content}, nil
}

// ListDecks shows one page of the public deck catalogue. The optional
// arguments are the page number and a name filter.
func (a *App) ListDecks(ctx context.Context, args []string) error {
	pageNumber := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad page number %q", args[0])
		}
		pageNumber = n
	}
	query := ""
	if len(args) > 1 {
		query = "search=" + url.QueryEscape(args[1])
	}

	page, err := a.decks.GetDecksPage(ctx, pageNumber, 10, query)
	if err != nil {
		return err
	}
	if page == nil {
		printlnFn("No results.")
		return nil
	}
	for _, d := range page.Items {
		printDeck(d)
	}
	printlnFn(fmt.Sprintf("page %d/%d (%d decks)", page.CurrentPage, page.TotalPages, page.TotalCount))
	return nil
}

// ShowDeck prints one deck in full.
func (a *App) ShowDeck(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	deck, err := a.decks.GetDeck(ctx, args[0])
	if err != nil {
		return err
	}
	if deck == nil {
		printlnFn("No such deck.")
		return nil
	}
	printDeck(deck)
	if deck.Description != "" {
		printlnFn(" ", deck.Description)
	}
	if user := a.sess.CurrentUser(); user != nil {
		printlnFn("  studied:", deck.CardsCountStudied[user.ID], "of", deck.CardsCount)
	}
	return nil
}

func (a *App) MyDecks(ctx context.Context) error {
	list, err := a.decks.GetMyDecks(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No decks yet.")
		return nil
	}
	for _, d := range list {
		printDeck(d)
	}
	return nil
}

func (a *App) AddDeck(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Deck name", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}
	tags, err := getSimpleText(a.reader, "Tags (comma separated)", os.Stdout)
	if err != nil {
		return err
	}
	img, err := a.promptAsset()
	if err != nil {
		return err
	}

	deck := models.NewDeck()
	deck.Name = name
	deck.Description = description
	deck.Tags = splitTags(tags)

	created, err := a.decks.AddDeck(ctx, deck, img)
	if err != nil {
		return err
	}
	printlnFn("Created deck", created.ID)
	return nil
}

// EditDeck applies an optimistic update: the local copy changes immediately
// and the backend is patched in the background.
func (a *App) EditDeck(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	deck, err := a.decks.GetDeck(ctx, args[0])
	if err != nil {
		return err
	}
	if deck == nil {
		printlnFn("Deck is not cached locally; list decks first.")
		return nil
	}

	edited := deck.Clone()
	name, err := getSimpleText(a.reader, "New name (empty keeps "+deck.Name+")", os.Stdout)
	if err != nil {
		return err
	}
	if name != "" {
		edited.Name = name
	}
	description, err := getSimpleText(a.reader, "New description (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if description != "" {
		edited.Description = description
	}
	tags, err := getSimpleText(a.reader, "New tags (comma separated, empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if tags != "" {
		edited.Tags = splitTags(tags)
	}
	img, err := a.promptAsset()
	if err != nil {
		return err
	}
	if img != nil {
		edited.ImagePath = img.Name
	}

	a.decks.UpdateDeck(ctx, edited, img)
	printlnFn("Updated.")
	return nil
}

func (a *App) RemoveDeck(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	a.decks.RemoveDeck(ctx, args[0])
	printlnFn("Removed.")
	return nil
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
