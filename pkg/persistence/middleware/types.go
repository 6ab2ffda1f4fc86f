// Package middleware provides composable decorators for ports.BlobStore.
//
// Middlewares wrap a store with cross-cutting behavior (encryption at
// rest, and so on) without the store adapters knowing about it. Apply
// them innermost-first:
//
//	store := middleware.Chain(fileStore, middleware.NewEncryptionMiddleware(cfg))
package middleware

import "github.com/stagelink/stagelink/pkg/ports"

// Middleware decorates a BlobStore with additional behavior.
type Middleware func(next ports.BlobStore) ports.BlobStore

// Chain applies middlewares to a store. The first middleware in the
// list becomes the outermost wrapper.
func Chain(store ports.BlobStore, middlewares ...Middleware) ports.BlobStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
