// Package lww implements a Last-Writer-Wins Element Set.
//
// The set keeps two logs: an add log and a remove log, each mapping an
// element to the timestamp of its latest recorded operation. Membership is
// never stored; it is derived from the two logs, so the answer depends only
// on their content and not on the order in which operations arrived:
//
//	exists(e) = add(e) > remove(e)
//
// where an element missing from a log takes the set's baseline timestamp.
// The comparison is strict, so a remove wins a tie with an add, and an
// element that was never touched does not exist.
//
// Two sets with the same baseline can be merged by taking, per element, the
// maximum timestamp from each log. Merge is commutative, associative and
// idempotent.
package lww
