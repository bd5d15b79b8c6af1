package models

// DeckPage is one page of a paginated deck listing. Pages are cached
// verbatim and replaced wholesale, never mutated in place.
type DeckPage struct {
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	PageSize    int     `json:"pageSize"`
	TotalCount  int     `json:"totalCount"`
	HasPrevious bool    `json:"hasPrevious"`
	HasNext     bool    `json:"hasNext"`
	Items       []*Deck `json:"items"`
}
