// Package snapshot publishes the latest chart description to a NATS
// JetStream KeyValue bucket.
//
// A native front end can watch the bucket key instead of polling the HTTP
// server. Publishing is best effort: failures are logged and counted but
// never reach the reactive core.
package snapshot
