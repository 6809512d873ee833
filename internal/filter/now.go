package filter

import "time"

// now is captured once, at process start, and shared by every time
// comparison. Tests inject a fixed value via SetNow to stay deterministic
//.
var now = time.Now()

// Now returns the process-scoped instant every AccessTime/ModificationTime
// filter compares against.
func Now() time.Time {
	return now
}

// SetNow overrides the process-scoped NOW. Intended for tests only; real
// callers should let the package-level init establish it once at startup.
func SetNow(t time.Time) {
	now = t
}
