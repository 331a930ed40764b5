// Package search executes doc-values queries and distance sorts over
// docvalues segments.
//
// Queries are two-phase: the approximation is the field's doc-values
// iterator (every document with a value) and the confirmation decodes the
// current document's value and tests it. Query.Iterator wraps both phases
// into a plain docid.Iterator; queries also implement TwoPhaseQuery for
// callers that want to order confirmations by MatchCost.
//
// Distance sorting follows the comparator protocol of a slot-based top-N
// queue: SetBottom, CompareBottom, Copy, Compare, SetTopValue, CompareTop and
// Value. TopN drives a FieldComparator over a segment.
package search
