/*
Package stagelink serves a statically defined page whose designated regions
can be edited in place and published as immutable, shareable preview
snapshots.

An operator toggles edit mode, changes region text, and saves; the captured
edits are persisted as a snapshot under a server-generated id. Anyone holding
the preview link can activate a preview session (a signed, viewer-scoped
token) and see the page with the snapshot's edits overlaid. The live page is
never affected, and a preview whose snapshot cannot be resolved shows an
error page rather than silently falling back to canonical content.

# Architecture

The core is hexagonal. pkg/domain holds the types and error taxonomy,
pkg/ports the BlobStore contract the snapshot store persists through, and
internal/adapters the memory, file and Redis backends plus the HTTP surface.
pkg/snapshot, pkg/session and pkg/content implement the store, the preview
session protocol and the renderer respectively.

# Usage

	app, err := stagelink.New("page.yaml", []byte(secret),
		stagelink.WithBlobStore(file.New("snapshots")),
	)
	if err != nil {
		log.Fatal(err)
	}
	http.ListenAndServe(":8080", app.Handler())
*/
package stagelink
