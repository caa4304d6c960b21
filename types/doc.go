// Package types defines the shared interfaces and contracts used across the
// ackwatch library.
//
// It exists as a separate package so that internal packages can depend on
// these definitions without importing the root ackwatch package, avoiding
// import cycles. Users normally access these types through the aliases
// re-exported by the root package (ackwatch.Destination, ackwatch.Logger,
// and so on).
package types
