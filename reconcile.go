// reconcile.go: finding where a remembered stack and a new one diverge.
package xgxcontext

// diffPos returns the first index at which the frames in newer no longer
// hold the invocations remembered in older. Every index ≥ the result is stale.
//
// The stacks are compared from the oldest frame. At the first index where
// they disagree on compare:
//   - if they also disagree on the identity part of compare, that index is
//     the divergence point;
//   - otherwise only the line moved: the same invocation went on to make
//     another call, so the frame survives and the divergence is one further.
//
// When one stack is a prefix of the other the divergence is the shorter
// length. An empty remembered stack diverges at 0.
func diffPos(older, newer []FrameDescriptor, compare frameFields) int {
	if len(older) == 0 {
		return 0
	}
	identity := compare & identityFields
	n := min(len(older), len(newer))
	for i := 0; i < n; i++ {
		if older[i].equalOn(newer[i], compare) {
			continue
		}
		if !older[i].equalOn(newer[i], identity) {
			return i
		}
		return i + 1
	}
	return n
}
