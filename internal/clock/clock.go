package clock

import "time"

// NowFunc returns the current time. It is exposed as a variable so tests
// can stub it for deterministic timestamps on run records.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }
