// Package watch rebuilds the site when sources change.
//
// Filesystem events are filtered, debounced and handed to a Coalescer, which
// guarantees at most one build runs at a time and at most one rebuild is
// queued behind it. An optional cron schedule feeds the same Coalescer.
package watch
