// Package api provides the HTTP surface of the registry server.
//
// # Overview
//
// The server owns the loaded registry and serialises all access to it: a
// resolve pass mutates the registry in place, so reads and reloads take the
// same lock.
//
// # Routes
//
//	GET  /plugins                              list descriptors
//	GET  /plugins/{id}                         all versions of one id
//	GET  /plugins/{id}/versions/{version}      one descriptor in detail
//	POST /resolve                              reload the plugin dir and resolve
//	GET  /diagnostics                          diagnostics of the last resolve
//
// Every request carries a generated request id, and request logging and
// metrics are applied as middleware.
package api
