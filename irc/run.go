package irc

import (
	"fmt"
	"net"
	"time"
)

// Run binds one listener per address in addrs and then drives the
// single-threaded core's main loop (spec §5: "a single goroutine owns all
// Server/Client/Channel state; I/O happens on other goroutines that only
// ever produce onto channels") until stop is closed. It returns the first
// listener bind error, if any, or nil on a clean shutdown.
func (s *Server) Run(addrs []string, stop <-chan struct{}) error {
	newConns := make(chan net.Conn, 64)
	inbound := make(chan InboundLine, 256)
	closed := make(chan ConnClosed, 64)

	var listeners []*Listener
	for _, addr := range addrs {
		l, err := Listen(addr, newConns)
		if err != nil {
			for _, prev := range listeners {
				prev.Close()
			}
			return fmt.Errorf("irc: binding %s: %w", addr, err)
		}
		listeners = append(listeners, l)
		go l.Accept()
		s.Log.Info("STARTUP", fmt.Sprintf("listening on %s", l.Addr()))
	}
	defer func() {
		for _, l := range listeners {
			l.Close()
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return nil

		case <-ticker.C:
			s.Clock.Tick(s.Clock.Now() + 1)
			s.Xlines.Expire(s.Clock.Now())

		case nc := <-newConns:
			c := s.NewLocalClient(nc)
			s.AdoptConnection(nc, c, inbound, closed)

		case in := <-inbound:
			if in.Client.IsDead() {
				continue
			}
			s.Dispatcher.Dispatch(s, in.Client, in.Line)

		case ev := <-closed:
			s.Disconnect(ev.Client, ev.Reason)
		}
	}
}
