// Package endpoint turns an API specification document into a canonical set
// of endpoint descriptors and compares two such sets.
//
// The main components are:
//
//   - [Set]: Unordered, duplicate-free collection of descriptors
//   - [Build]: Walks the document's path/method tree and produces a [Set]
//   - [Diff]: Computes the added/removed [Report] between two sets
//
// A descriptor has the form "METHOD PATH (location:name, ...)", where the
// parameter list keeps declaration order and is omitted when the operation
// declares no parameters.
package endpoint
