package models

// Page is the pagination view model handed to templates alongside the items
// of the current page.
type Page struct {
	Number   int   `json:"number"`
	Size     int   `json:"size"`
	NumPages int   `json:"numPages"`
	Total    int64 `json:"total"`
	HasPrev  bool  `json:"hasPrev"`
	HasNext  bool  `json:"hasNext"`
}
