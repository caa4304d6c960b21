// Package testing provides test utilities for the ackwatch library.
//
// This package offers helpers for setting up test environments: fake broker
// collaborators (destinations and subscriptions with scriptable ack times)
// and an embedded NATS server for integration-testing the JetStream adapter.
// It follows Go's convention of providing testing utilities in a dedicated
// package (similar to net/http/httptest).
//
// Key utilities:
//   - FakeDestination / FakeSubscription: scriptable broker doubles
//   - NewTestLogger: logger that writes to the testing.T log
//   - StartEmbeddedNATS: single NATS server with JetStream
//
// Example usage:
//
//	import (
//	    "testing"
//	    awtest "github.com/arloliu/ackwatch/testing"
//	)
//
//	func TestMyPolicy(t *testing.T) {
//	    sub := awtest.NewFakeSubscription("sub-1")
//	    dest := awtest.NewFakeDestination(sub)
//	    // register dest with the strategy under test
//	}
package testing
