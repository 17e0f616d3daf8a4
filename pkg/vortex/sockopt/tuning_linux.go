//go:build linux

package sockopt

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// tune sets SO_REUSEPORT on the listener's own socket. No per-connection
// options (TCP_NODELAY, TCP_QUICKACK) are set here.
func tune(ln net.Listener) {
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		return
	}
	raw, err := tcpLn.SyscallConn()
	if err != nil {
		return
	}
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), syscall.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
}
