// Package directory implements the manifest aggregation and filtering pipeline.
//
// The pipeline fetches package manifests from an ordered list of repository
// sources, normalizes two manifest schema versions into one canonical Package
// model, maintains a derived tag index, and applies a combined text/tag filter
// with URL-state round-tripping.
//
// Components:
//   - Normalize: raw manifest -> Package, never fails
//   - Fetcher: settle-all concurrent fetch with per-source failure isolation
//   - TagIndex: append-only union of tags across loaded packages
//   - Filter: deterministic text + tag filtering
//   - ViewState: {query, tags, focus} <-> URL query string + fragment
//   - Manager: owns the current package set and rebuilds it on reload
//
// Failures are isolated per source: a manifest that cannot be fetched or
// parsed produces no Package and a diagnostic, and never affects any other
// source. The package holds no UI or transport references beyond the HTTP
// client handed to the fetcher.
package directory
