// Package connectivity tells callers whether a network request is worth trying.
package connectivity

import (
	"context"
	"log"
	"net"
	"time"

	"go.uber.org/atomic"
)

// Gate reports whether the network is reachable.
type Gate interface {
	IsConnected() bool
}

// Static is a Gate with a fixed answer.
type Static bool

func (s Static) IsConnected() bool { return bool(s) }

// Monitor tracks reachability by dialing a TCP address. Until the first probe
// completes it reports connected.
type Monitor struct {
	addr    string
	timeout time.Duration
	dialer  net.Dialer

	connected *atomic.Bool
}

// NewMonitor creates a Monitor probing addr ("host:port").
func NewMonitor(addr string, timeout time.Duration) *Monitor {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Monitor{
		addr:      addr,
		timeout:   timeout,
		connected: atomic.NewBool(true),
	}
}

func (m *Monitor) IsConnected() bool {
	return m.connected.Load()
}

// Probe dials the configured address once and records the outcome.
func (m *Monitor) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	conn, err := m.dialer.DialContext(ctx, "tcp", m.addr)
	ok := err == nil
	if ok {
		_ = conn.Close()
	}

	if prev := m.connected.Swap(ok); prev != ok {
		if ok {
			log.Printf("INFO: connectivity: %s reachable again", m.addr)
		} else {
			log.Printf("INFO: connectivity: %s unreachable: %v", m.addr, err)
		}
	}
	return ok
}
