// Package sockopt applies platform-specific listener socket tuning.
// Tune is a best-effort optimization: a failure to apply any option is
// swallowed, never surfaced as a connection error.
package sockopt

import "net"

// Tune applies platform-specific socket options to ln's underlying file
// descriptor, if the platform and listener type support it.
func Tune(ln net.Listener) {
	tune(ln)
}
