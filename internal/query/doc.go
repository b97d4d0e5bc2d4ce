// Package query provides the keyed request cache behind the query hooks.
//
// A Cache stores the latest settled value for each Key, serves it while it is
// fresh (StaleTime), coalesces concurrent fetches of the same key into one
// call and notifies subscribers whenever an entry changes. Entries nobody
// observes are dropped by GC once they have been idle for GCTime.
//
// Query[T] is the typed handle the hooks hand out. Its Result mirrors the
// {data, isPending, error} state a UI renders: Data is nil until the first
// fetch settles, IsPending is true until then, and Err carries a failure of
// the query function itself (including a recovered panic). Failures that the
// payload reports on its own, such as an api.Envelope with an error message,
// are stored as data; they only bump ConsecutiveFailures.
//
// A disabled Query never touches the cache and reports IsPending forever.
package query
