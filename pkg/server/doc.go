// Package server exposes one shared reactive.Reactive over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness
//	GET  /state          the whole state, unwrapped
//	GET  /state/{path}   the value at a dotted path
//	PUT  /state/{path}   write the JSON body at a dotted path
//	GET  /keys[/{path}]  keys of the reactive at path, with their kind
//	GET  /watch          WebSocket stream of snapshots (?path=a.b)
//	GET  /metrics        Prometheus metrics
//
// Writes follow reactive.Reactive.Set: unknown keys answer 404, function
// keys 409, other rejected writes 400. Every access to the instance is
// serialized, and watchers are driven by effects that re-run on the writing
// goroutine.
package server
