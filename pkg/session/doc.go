/*
Package session implements the preview session protocol: a viewer-scoped,
tamper-evident binding to one snapshot id.

The binding is a capability token (HMAC-signed, carrying the snapshot id and
issue time) stored in a cookie. Verification happens server-side on every
request; any token that does not verify is treated as the absence of a
session, so the state machine degrades to normal rendering rather than
erroring.
*/
package session
