// Package backend is a small SQLite implementation of the remote item
// service, for local development and end-to-end tests of the proxy and the
// terminal client.
//
// It serves the same contract the proxy forwards to: CRUD under /api/items,
// /api/version, JSON error bodies, and the strict DD-MM-YYYY date check.
// Storage uses modernc.org/sqlite, so no cgo toolchain is needed.
package backend
