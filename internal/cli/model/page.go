package model

// Page — страница пагинированного списка. Next/Previous содержат URL соседней страницы или nil.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether the server advertised a next page.
func (p Page[T]) HasNext() bool { return p.Next != nil && *p.Next != "" }
