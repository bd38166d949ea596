// Package logtail reads the tail of the weekplan client log and parses its
// records for the in-app log view.
//
// Read keeps a ring buffer of maxLines entries, so memory stays bounded by
// the requested line count regardless of file size. A missing file is not an
// error: the client may not have logged anything yet.
//
// Parse understands the key=value lines produced by slog.NewTextHandler:
//
//	time=2025-06-02T10:00:00.000+02:00 level=ERROR msg="error creating item" error="..."
//
// Lines that do not look like slog records are kept verbatim so nothing in
// the file is hidden from the user.
package logtail
