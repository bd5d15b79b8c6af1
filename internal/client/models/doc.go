// Package models defines the entities the client-side data-access layer
// caches locally: decks, cards, paginated deck listings and the session user.
//
// Entities mirror the backend's JSON representation. Each cache owns its own
// copies; nothing is shared by mutable reference across caches, so the Clone
// helpers are used whenever an entity crosses a cache boundary.
package models
