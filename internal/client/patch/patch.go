// Package patch computes minimal field-level diffs between two entity
// snapshots as JSON-Patch replace operations.
//
// Emission rules follow the backend contract exactly: a deck name (and a card
// question or answer) is emitted only when the new value is non-empty, while
// a deck description is emitted whenever it was set, empty included. The
// asymmetry is part of the wire contract and must not be "fixed" here.
package patch

// Op is a single JSON-Patch operation.
type Op struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

const opReplace = "replace"

// DeckPatcher accumulates deck field changes and builds the patch document.
type DeckPatcher struct {
	name        *string
	description *string
}

func (p *DeckPatcher) PatchName(name string) *DeckPatcher {
	p.name = &name
	return p
}

func (p *DeckPatcher) PatchDescription(description string) *DeckPatcher {
	p.description = &description
	return p
}

// Build returns the operations in stable order: name, then description.
// An empty result means no remote call is needed.
func (p *DeckPatcher) Build() []Op {
	ops := []Op{}
	if p.name != nil && *p.name != "" {
		ops = append(ops, Op{Op: opReplace, Path: "/name", Value: *p.name})
	}
	if p.description != nil {
		ops = append(ops, Op{Op: opReplace, Path: "/description", Value: *p.description})
	}
	return ops
}

// CardPatcher accumulates card field changes and builds the patch document.
type CardPatcher struct {
	question *string
	answer   *string
}

func (p *CardPatcher) PatchQuestion(question string) *CardPatcher {
	p.question = &question
	return p
}

func (p *CardPatcher) PatchAnswer(answer string) *CardPatcher {
	p.answer = &answer
	return p
}

// Build returns the operations in stable order: question, then answer.
// Empty values are suppressed for both fields.
func (p *CardPatcher) Build() []Op {
	ops := []Op{}
	if p.question != nil && *p.question != "" {
		ops = append(ops, Op{Op: opReplace, Path: "/question", Value: *p.question})
	}
	if p.answer != nil && *p.answer != "" {
		ops = append(ops, Op{Op: opReplace, Path: "/answer", Value: *p.answer})
	}
	return ops
}
