// Package collections keeps client-side mirrors of remote list-valued
// resources consistent with the authoritative store.
//
// Three shapes cover everything the platform exposes:
//
//   - [Membership] : toggle-membership sets (favorites) mirrored as a
//     movieID → join-record-id map
//   - [Thread] : append-only feeds (comments) ordered newest-first by the
//     server, patched in place on edit
//   - [RatingSlot] : single-value-per-viewer resources (ratings) with
//     create-or-replace semantics and a purely visual preview value
//
// All three follow the same rule: local state transitions only on server
// confirmation. The one exception is [RatingSlot]'s preview, which is never
// persisted. Mutations carry a per-key monotonic ticket and a session epoch
// snapshot; a resolution that is no longer the newest for its key, or that
// arrives after the session changed, is discarded rather than applied.
package collections
