// Package cards is the client-side entity cache for flashcards.
//
// Cards are indexed by a (deckID, cardID) compound key, never by card id
// alone: a card belongs to exactly one deck. Each deck's full card list is a
// freshness scope with a 4-minute deadline; point reads bypass TTL and fall
// back to a remote fetch on a miss without populating the cache.
//
// AddCard is confirmed (cache changes only after 201), UpdateCard and
// RemoveCard are optimistic (cache mutates before remote confirmation,
// remote failures are logged and dropped). AnswerCard posts a study answer
// and adopts the rescheduled card the backend returns when the deck's list
// is cached.
package cards
