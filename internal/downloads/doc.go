// Package downloads resolves and formats release download counts.
//
// The Counter aggregates asset download counts across a release list and
// caches the result per URL for the lifetime of the process: no TTL, no
// invalidation, no re-fetching. Any transport or parse failure resolves to
// zero with a logged diagnostic and is never surfaced to the caller.
package downloads
