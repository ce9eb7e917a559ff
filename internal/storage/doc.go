// Package storage provides the key/value log abstraction behind the add and
// remove logs of an LWW set, plus a map-backed implementation. Logs only
// grow: entries are overwritten, never deleted.
package storage
