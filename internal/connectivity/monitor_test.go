package connectivity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_Probe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	m := NewMonitor(addr, time.Second)
	assert.True(t, m.IsConnected(), "optimistic before first probe")

	assert.True(t, m.Probe(context.Background()))
	assert.True(t, m.IsConnected())

	require.NoError(t, ln.Close())

	assert.False(t, m.Probe(context.Background()))
	assert.False(t, m.IsConnected())
}

func TestStatic(t *testing.T) {
	var g Gate = Static(false)
	assert.False(t, g.IsConnected())
	assert.True(t, Static(true).IsConnected())
}
