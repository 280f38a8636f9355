// Package heroes is a thin gateway over the remote heroes resource.
//
// Every operation issues exactly one request and never returns an error:
// failures are reported to a diagnostic Reporter, summarised to the message
// log, and replaced by a fallback value (an empty slice for list operations,
// nil for single records). Callers detect failure by checking for those
// fallbacks. A Service holds no mutable state and may be shared between
// goroutines; overlapping calls complete in no particular order.
package heroes
