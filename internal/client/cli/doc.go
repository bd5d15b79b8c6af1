// Package cli implements the interactive flashdeck terminal client. It wires
// the session, deck and card repositories behind a small REPL; all remote
// traffic flows through the shared caches, so repeated listings are served
// locally until their TTL expires.
package cli
