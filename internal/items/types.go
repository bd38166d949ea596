package items

import (
	"slices"

	"github.com/five82/weekplan/internal/dates"
)

// Item is a dated entry owned by the item service.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// Draft is an item payload before the service assigns an id.
type Draft struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// Validate checks the draft the same way the proxy does before forwarding it.
func (d Draft) Validate() error {
	if !dates.Valid(d.Date) {
		return ErrInvalidDate
	}
	return nil
}

// VersionInfo mirrors /api/version.
type VersionInfo struct {
	Version string `json:"version"`
}

// ErrorBody is the JSON body carried by every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

// Clone returns an independent copy of items. A nil input yields an empty,
// non-nil slice so callers can always range and append safely.
func Clone(list []Item) []Item {
	if len(list) == 0 {
		return []Item{}
	}
	return slices.Clone(list)
}

// IndexOf returns the position of the item with id, or -1.
func IndexOf(list []Item, id int64) int {
	return slices.IndexFunc(list, func(it Item) bool { return it.ID == id })
}
