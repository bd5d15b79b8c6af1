package models

// User is the current session user. At most one is held locally at a time;
// it is replaced wholesale on login, logout and profile edits.
type User struct {
	ID       string   `json:"id"`
	UserName string   `json:"userName"`
	DeckIDs  []string `json:"deckIds"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.DeckIDs = make([]string, len(u.DeckIDs))
	copy(c.DeckIDs, u.DeckIDs)
	return &c
}
