// Package ports defines the driven-port interfaces that connect the snapshot
// pipeline to external collaborators, plus a reusable contract test suite
// that every adapter must pass.
package ports
