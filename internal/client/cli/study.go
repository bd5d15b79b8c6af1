package cli

import (
	"context"
	"os"
	"strings"
	"time"
)

// Study runs through every card of the deck that is due for the current user
// and records the answers. Cards answered wrong stay due and come up again in
// the next round.
func (a *App) Study(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	deckID := args[0]

	user := a.sess.CurrentUser()
	if user == nil {
		printlnFn("Log in to study.")
		return nil
	}

	cards, err := a.cards.GetCards(ctx, deckID)
	if err != nil {
		return err
	}

	now := time.Now()
	studied := 0
	for _, c := range cards {
		if due, ok := c.TimeToRepeat[user.ID]; ok && due.After(now) {
			continue
		}

		printlnFn("Q:", c.Question)
		if _, err := getSimpleText(a.reader, "Press Enter to reveal the answer", os.Stdout); err != nil {
			return err
		}
		printlnFn("A:", c.Answer)

		reply, err := getSimpleText(a.reader, "Did you know it? (y/n)", os.Stdout)
		if err != nil {
			return err
		}
		isRight := strings.EqualFold(reply, "y")
		if err := a.cards.AnswerCard(ctx, deckID, c.ID, isRight); err != nil {
			return err
		}
		studied++
	}

	if studied == 0 {
		printlnFn("Nothing due right now, come back later.")
	} else {
		printlnFn("Session done,", studied, "cards studied.")
	}
	return nil
}
