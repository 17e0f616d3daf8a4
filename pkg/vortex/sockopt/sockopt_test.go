package sockopt

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTuneDoesNotBreakListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.NotPanics(t, func() { Tune(ln) })

	acceptDone := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		acceptDone <- conn
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	server := <-acceptDone
	defer server.Close()
}

func TestTuneOnNonTCPListenerIsNoop(t *testing.T) {
	ln, err := net.Listen("unix", "")
	if err != nil {
		t.Skipf("unix sockets unavailable: %v", err)
	}
	defer ln.Close()

	assert.NotPanics(t, func() { Tune(ln) })
}
