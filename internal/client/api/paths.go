// Package api builds the versioned REST paths of the flashdeck backend.
// Paths are relative; the gateway prepends the configured base URL.
package api

const prefix = "/api/v1"

func AuthLogin() string    { return prefix + "/auth/login" }
func AuthRegister() string { return prefix + "/auth/register" }

func UserByID(id string) string { return prefix + "/users/" + id }
func UpdateUserName() string    { return prefix + "/users/update-username" }
func UpdatePassword() string    { return prefix + "/users/update-password" }

func Decks() string                    { return prefix + "/decks" }
func MyDecks() string                  { return prefix + "/decks/my" }
func DeckByID(id string) string        { return prefix + "/decks/" + id }
func DeckUpdateTags(id string) string  { return DeckByID(id) + "/update-tags" }
func DeckUpdateImage(id string) string { return DeckByID(id) + "/update-image" }

func Cards(deckID string) string            { return DeckByID(deckID) + "/cards" }
func CardByID(deckID, cardID string) string { return Cards(deckID) + "/" + cardID }
func CardUpdateImage(deckID, cardID string) string {
	return CardByID(deckID, cardID) + "/update-image"
}
