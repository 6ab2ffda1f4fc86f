package domain

import "errors"

// ErrNotFound is returned when a snapshot ID does not resolve to any stored object.
var ErrNotFound = errors.New("snapshot not found")

// ErrAccessDenied is returned when the blob backend reports a permission/ACL
// failure distinct from absence. Viewers see it as ErrNotFound; operators
// should log it separately.
var ErrAccessDenied = errors.New("access denied by blob backend")

// ErrStoreUnavailable is returned for transient backend failures (network,
// timeout, corrupt payload). Safe for the user to retry manually.
var ErrStoreUnavailable = errors.New("blob store unavailable")

// ErrPublishInFlight is returned when a publish is requested while a prior
// publish has not yet settled.
var ErrPublishInFlight = errors.New("publish already in flight")
