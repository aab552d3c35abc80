// Package web serves the dashboard over HTTP.
//
// Routes:
//
//	GET  /                    full page (control sidebar, chart main area)
//	GET  /fragments/control   control panel fragment
//	GET  /fragments/chart     chart fragment
//	POST /control             set chart kind and/or sample count (form: kind, n)
//	POST /refresh             fire the refresh event
//	GET  /events              server-sent "state" events
//	GET  /chart.json          chart description (ETag: fingerprint)
//	GET  /chart.svg           chart image
//	GET  /chart.png           chart image
//	GET  /healthz             liveness probe
//	GET  /metrics             Prometheus metrics (when configured)
//
// POST requests carrying the X-Dashboard-Fragment header get the control
// fragment (or 204) instead of a redirect, so the page can update in place.
package web
