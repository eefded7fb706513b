// Package server exposes a fern app over HTTP.
//
// Routes:
//
//	GET  /                  rendered shell
//	GET  /fragment/{name}   raw fragment markup
//	GET  /data              raw JSON payload
//	POST /event             dispatch a click or input by dispatch id
//	POST /navigate          resolve a hash and mount its fragment
//	GET  /healthz           liveness probe
//	GET  /metrics           Prometheus metrics (when enabled)
//	GET  /ws                hot-reload socket (dev mode)
//
// Event and navigate responses carry the re-rendered container markup so
// thin clients can swap it in wholesale.
package server
