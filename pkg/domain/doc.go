// Package domain contains the core types of the snapshot pipeline (field
// edits, snapshots) and the sentinel errors shared across adapters.
//
// It is dependency-free by design: adapters and services depend on domain,
// never the other way around.
package domain
