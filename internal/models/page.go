package models

// Page is the envelope shared by offset-paginated list endpoints.
type Page[T any] struct {
	Items       []T `json:"items"`
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// CursorPage is the envelope of cursor-paginated log endpoints.
// Next and Prev are row ids, or null.
type CursorPage[T any] struct {
	Data []T    `json:"data"`
	Next *int64 `json:"next"`
	Prev *int64 `json:"prev"`
}
