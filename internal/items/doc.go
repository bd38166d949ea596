// Package items provides the item wire types and an HTTP client for the
// weekplan proxy API.
//
// # Endpoints
//
//   - GET    /api/items       list every item
//   - GET    /api/items/{id}  one item, 404 when missing
//   - POST   /api/items       create from a Draft, 201
//   - PUT    /api/items/{id}  replace from a Draft
//   - DELETE /api/items/{id}  remove
//   - GET    /api/version     {"version": "..."}
//
// Every non-2xx response carries {"error": "..."}; the client surfaces it as
// an *APIError whose Message holds that text. errors.Is(err, ErrNotFound)
// matches 404 responses.
//
// Dates travel as strict DD-MM-YYYY strings (see package dates).
//
// # Usage
//
//	client, err := items.NewClient("127.0.0.1:8080", items.WithTimeout(5*time.Second))
//	if err != nil {
//		return err
//	}
//	list, err := client.ListItems(ctx)
package items
