package app

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunCleansUpOnListenFailure(t *testing.T) {
	// Occupy a port so ListenAndServe fails straight away.
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := Config{
		Env:                 "test",
		LogLevel:            "error",
		Port:                ln.Addr().(*net.TCPAddr).Port,
		DatabaseFile:        ":memory:",
		JWTSecret:           "app-test-secret",
		ShutdownGracePeriod: time.Second,
	}

	application, err := New(cfg)
	require.NoError(t, err)

	err = application.Run()
	require.ErrorContains(t, err, "server failed")

	// The failure path runs the same cleanup as a signal shutdown, so the
	// store must already be closed.
	require.Error(t, application.db.Ping(context.Background()))
}
