// Package dev provides live reload for the preview server.
//
//   - Watcher: polls the templates file, pages and static files
//   - ReloadServer: pushes change events to browsers via WebSocket
//
// # Reload Protocol
//
// Browsers connect to the reload socket and receive JSON messages:
//
//	{"type":"reload"}                          // full reload
//	{"type":"page","page":"index.yaml"}        // reload if showing /pages/index
//	{"type":"css","file":"static/main.css"}    // refetch stylesheets
//	{"type":"error","code":"B103","error":"…"} // show the error overlay
//	{"type":"clear"}                           // hide the overlay
//
// An error stays pending until it is cleared and is sent to every browser
// that connects in the meantime.
package dev
