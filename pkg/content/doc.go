// Package content retrieves markup fragments and the JSON data payload
// from a content source.
//
// Two backends ship: Disk for local development and static deployments,
// and S3 for bucket-hosted content. The core engine never touches either —
// it consumes already-parsed subtrees — so load failures degrade per the
// app layer's policy: a missing fragment renders the not-found fallback, a
// missing payload is skipped.
package content
