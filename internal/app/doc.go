// Package app is Kitchen's composition root.
//
// # Startup
//
// Run wires the application together in this order:
//
//  1. config.Load reads ~/.config/kitchen/config.toml (and KITCHEN_ENV)
//  2. command-line overrides for env and refresh interval are applied
//  3. the log file is opened through internal/logging
//  4. api.NewClient is bound to the endpoint of the build mode
//  5. a query.Cache and the queries.Hooks on top of it are created
//  6. the Refresher starts in the background
//  7. ui.Run takes over the terminal and blocks until the user quits
//
// Any failure before step 7 is returned to main, which prints it and exits 1.
//
// # Data Flow
//
//	ui screen ──> queries.Hooks ──> query.Cache ──> api.Client ──> dummyjson
//	    ^                               │
//	    └──────── cache.Watch ──────────┘
//
// Screens never talk to the client directly. They fetch through hooks and
// re-render whenever the cache reports a change.
//
// # Refresher
//
// The Refresher replaces a fixed-cadence poller. Every interval (default 60s,
// refresh_seconds in config, -refresh on the command line) it asks the cache
// to refetch the queries the current screen observes, then garbage-collects
// entries nobody has used for a while.
//
// A pass counts as failed when any refetched query settles with an error
// envelope. Each consecutive failed pass doubles the wait, capped at five
// minutes; one clean pass resets it:
//
//	failures  0    1     2     3+
//	wait      60s  120s  240s  5m
//
// Pressing r in the UI calls Trigger, which marks every entry stale and wakes
// the loop at once. Triggers are rate limited to one every two seconds so a
// held key does not flood the API.
package app
