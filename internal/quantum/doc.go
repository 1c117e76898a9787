// Package quantum keeps slot values consistent across every open tab.
//
// Each tab owns one record in the shared store, keyed by its tab ID, holding
// the slot values it can currently see. The global view is never stored: it
// is recomputed by merging all tab records, the first record that mentions a
// slot winning. A slot nobody has in view has no global value and collapses
// afresh the next time some tab observes it.
//
// There is no locking. Two tabs that collapse the same slot at the same
// moment both persist their pick; the merge then settles on whichever record
// the store enumerates first and the other tab adopts it on its next refresh.
package quantum
