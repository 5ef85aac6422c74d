// Package dev provides the development-mode live reload machinery: a
// polling file watcher over the application's shell and public asset
// directories, and a WebSocket broadcaster that tells connected
// browsers to refresh when something changes.
package dev
