// Package ui is the weekplan terminal interface, built on Bubble Tea.
//
// # Views
//
//   - Items: table of id, date and name. j/k select, n new, e edit,
//     d delete (asks y/n), r reload.
//   - Plan: this week and the next, Monday to Friday, with each day's items.
//     Today's box is highlighted.
//   - Logs: tail of the client log file, re-read every two seconds while
//     the view is open.
//
// tab cycles views; i, w and l jump to one; ? shows every binding; T cycles
// the theme and saves it to the prefs file.
//
// # State flow
//
// The model never reads the store directly after startup. Run subscribes to
// the items, version and ui sections and forwards each notification into
// the program as a message; Update keeps a mirror of each section.
//
// Store mutations run inside commands, off the Update goroutine, because a
// notification is delivered synchronously and Program.Send blocks until
// Update is free:
//
//	key ──> Update ──> cmd (goroutine) ──> actions / store
//	                                            │
//	       Update <── Program.Send(msg) <── listener
//
// Editing goes through the store as well: e sets the editing id, the ui
// notification makes the model fetch the item with GetItem and open the
// form, and a successful update (or cancel) clears the id, which closes
// the form. Every message gets a five second timer that removes it.
package ui
