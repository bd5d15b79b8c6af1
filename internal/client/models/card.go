package models

import "time"

// Card is a single question/answer pair. A card belongs to exactly one deck;
// callers always address it by (deckID, cardID). TimeToRepeat maps a scope
// key (user id) to the moment the card is due for its next repetition.
type Card struct {
	ID           string               `json:"id"`
	Question     string               `json:"question"`
	Answer       string               `json:"answer"`
	ImagePath    string               `json:"imagePath,omitempty"`
	TimeToRepeat map[string]time.Time `json:"timeToRepeat"`
}

// NewCard returns an empty card with an initialized repetition schedule.
func NewCard() *Card {
	return &Card{TimeToRepeat: map[string]time.Time{}}
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	d := *c
	d.TimeToRepeat = make(map[string]time.Time, len(c.TimeToRepeat))
	for k, v := range c.TimeToRepeat {
		d.TimeToRepeat[k] = v
	}
	return &d
}
