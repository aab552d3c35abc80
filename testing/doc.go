// Package testing provides test utilities for the dashboard.
//
// This package offers helpers for setting up test environments: an embedded
// NATS server for the request/reply source and the snapshot publisher, a
// logger writing through t.Logf, and a data source whose calls complete only
// when the test says so. It follows Go's convention of providing testing
// utilities in a dedicated package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - NewTestLogger: Logger writing to the test log
//   - NewGatedSource: DataSource released call by call
//
// Example usage:
//
//	import (
//	    "testing"
//	    dashtest "github.com/superKazi/awal-lazard/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := dashtest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
