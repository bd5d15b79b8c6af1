package devserver

import "time"

// Server-side representations. JSON tags follow the wire contract the client
// caches rely on.

type User struct {
	ID       string   `json:"id"`
	UserName string   `json:"userName"`
	DeckIDs  []string `json:"deckIds"`

	passHash string
}

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

type Card struct {
	ID           string               `json:"id"`
	DeckID       string               `json:"-"`
	Question     string               `json:"question"`
	Answer       string               `json:"answer"`
	ImagePath    string               `json:"imagePath,omitempty"`
	TimeToRepeat map[string]time.Time `json:"timeToRepeat"`
}

type DeckPage struct {
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	PageSize    int     `json:"pageSize"`
	TotalCount  int     `json:"totalCount"`
	HasPrevious bool    `json:"hasPrevious"`
	HasNext     bool    `json:"hasNext"`
	Items       []*Deck `json:"items"`
}
