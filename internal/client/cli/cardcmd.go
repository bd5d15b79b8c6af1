package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/flashdeck/flashdeck-go/internal/client/models"
)

func (a *App) ListCards(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	cards, err := a.cards.GetCards(ctx, args[0])
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		printlnFn("No cards in this deck.")
		return nil
	}
	for _, c := range cards {
		printlnFn(fmt.Sprintf("%s  Q: %s", c.ID, c.Question))
	}
	return nil
}

func (a *App) AddCard(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	question, err := getSimpleText(a.reader, "Question", os.Stdout)
	if err != nil {
		return err
	}
	answer, err := getSimpleText(a.reader, "Answer", os.Stdout)
	if err != nil {
		return err
	}
	img, err := a.promptAsset()
	if err != nil {
		return err
	}

	card := models.NewCard()
	card.Question = question
	card.Answer = answer

	created, err := a.cards.AddCard(ctx, args[0], card, img)
	if err != nil {
		return err
	}
	printlnFn("Created card", created.ID)
	return nil
}

// EditCard applies an optimistic update, like EditDeck.
func (a *App) EditCard(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	card, err := a.cards.GetCard(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if card == nil {
		printlnFn("Card is not cached locally; list the deck's cards first.")
		return nil
	}

	edited := card.Clone()
	question, err := getSimpleText(a.reader, "New question (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if question != "" {
		edited.Question = question
	}
	answer, err := getSimpleText(a.reader, "New answer (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "" {
		edited.Answer = answer
	}
	img, err := a.promptAsset()
	if err != nil {
		return err
	}
	if img != nil {
		edited.ImagePath = img.Name
	}

	a.cards.UpdateCard(ctx, args[0], edited, img)
	printlnFn("Updated.")
	return nil
}

func (a *App) RemoveCard(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	a.cards.RemoveCard(ctx, args[0], args[1])
	printlnFn("Removed.")
	return nil
}
