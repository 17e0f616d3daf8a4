//go:build !linux

package sockopt

import "net"

// tune is a no-op on platforms without the Linux-specific socket option
// surface this package targets.
func tune(net.Listener) {}
