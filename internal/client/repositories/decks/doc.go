// Package decks is the client-side entity cache for decks and paginated deck
// listings.
//
// # Freshness
//
// List scopes carry a next-refresh deadline: paginated listings 2 minutes
// (keyed by the exact page/size/query combination), the "my decks" scope
// 4 minutes. A read at or past the deadline evicts the scope wholesale,
// re-arms the deadline and refetches. Point reads bypass TTL entirely: they
// consult the in-memory map and fall back to a remote fetch on a miss,
// without populating the cache.
//
// # Writes
//
// AddDeck is confirmed: the cache changes only after a 201. UpdateDeck and
// RemoveDeck are optimistic: the cache mutates and subscribers are notified
// before the remote calls are issued, and remote failures are dropped (and
// logged), so the cache can diverge from the backend until the next TTL
// refresh. Every deck mutation evicts the entire paginated-listing cache,
// trading efficiency for a guaranteed-fresh list.
package decks
