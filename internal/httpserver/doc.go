// Package httpserver holds the HTTP plumbing shared by the weekplan proxy
// and the development item service: a listener-bound App with graceful
// shutdown, request id, access log and panic recovery middleware, and JSON
// response helpers.
package httpserver
