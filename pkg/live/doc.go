// Package live binds documents to client connections.
//
// A Session owns one live document and one websocket connection. All
// document mutation is serialized through the session's processing
// goroutine; the patches it produces are batched per unit of work,
// encoded with a compact varint framing, and sent as single binary
// messages. Server wires the whole loop up behind a chi router: it
// serves the rendered page, and on websocket connect reconstructs the
// served document and hydrates a fresh tree onto it.
package live
