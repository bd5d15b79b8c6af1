package models

// Deck is a collection of flashcards as the backend serves it.
//
// ID is assigned by the server; an empty ID denotes a deck that has not been
// created remotely yet. CardsCountStudied maps a scope key (user id) to the
// number of cards that user has studied in this deck.
type Deck struct {
	ID                string         `json:"id"`
	AuthorID          string         `json:"authorId"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	ImagePath         string         `json:"imagePath"`
	Tags              []string       `json:"tags"`
	CardsCount        int            `json:"cardsCount"`
	CardsCountStudied map[string]int `json:"cardsCountStudied"`
}

// NewDeck returns an empty deck with initialized collections.
func NewDeck() *Deck {
	return &Deck{
		Tags:              []string{},
		CardsCountStudied: map[string]int{},
	}
}

// Clone returns a deep copy of the deck.
func (d *Deck) Clone() *Deck {
	c := *d
	c.Tags = make([]string, len(d.Tags))
	copy(c.Tags, d.Tags)
	c.CardsCountStudied = make(map[string]int, len(d.CardsCountStudied))
	for k, v := range d.CardsCountStudied {
		c.CardsCountStudied[k] = v
	}
	return &c
}
