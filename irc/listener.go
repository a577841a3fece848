package irc

import (
	"bufio"
	"net"

	"github.com/google/uuid"
)

// conn adapts a net.Conn into the Writer capability Client needs, buffering
// writes the way ergo's old src/irc/socket.go's Socket.Write does.
type conn struct {
	nc     net.Conn
	writer *bufio.Writer
}

func newConn(nc net.Conn) *conn {
	return &conn{nc: nc, writer: bufio.NewWriter(nc)}
}

func (c *conn) SendLine(line string) error {
	if _, err := c.writer.WriteString(line); err != nil {
		return err
	}
	if _, err := c.writer.WriteString("\r\n"); err != nil {
		return err
	}
	return c.writer.Flush()
}

// InboundLine is one raw line read off a connection, delivered to the main
// loop for dispatch — the single point at which the single-threaded core
// (spec §5) touches Server/Client state. Reader goroutines only ever send
// on channels; they never call into Server themselves.
type InboundLine struct {
	Client *Client
	Line   string
}

// ConnClosed signals that a connection's reader goroutine has exited,
// either on EOF or on a read error.
type ConnClosed struct {
	Client *Client
	Reason string
}

// Listener accepts connections on one bound address and hands each raw
// net.Conn to the main loop via NewConns, never touching Server state from
// its own Accept goroutine.
type Listener struct {
	ln       net.Listener
	newConns chan<- net.Conn
}

// Listen binds addr and returns a Listener. Run Accept in its own
// goroutine; it terminates when Close is called.
func Listen(addr string, newConns chan<- net.Conn) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln, newConns: newConns}, nil
}

func (l *Listener) Addr() net.Addr { return l.ln.Addr() }
func (l *Listener) Close() error   { return l.ln.Close() }

// Accept runs the accept loop until the listener is closed.
func (l *Listener) Accept() {
	for {
		nc, err := l.ln.Accept()
		if err != nil {
			return
		}
		l.newConns <- nc
	}
}

// AdoptConnection starts the reader goroutine for nc, whose owning Client
// the caller has already inserted into ClientManager on the main loop; the
// goroutine only ever produces InboundLine/ConnClosed values.
func (s *Server) AdoptConnection(nc net.Conn, c *Client, inbound chan<- InboundLine, closed chan<- ConnClosed) {
	go func() {
		scanner := bufio.NewScanner(nc)
		scanner.Buffer(make([]byte, 512), 8192)
		for scanner.Scan() {
			inbound <- InboundLine{Client: c, Line: scanner.Text()}
		}
		reason := "Connection closed"
		if err := scanner.Err(); err != nil {
			reason = err.Error()
		}
		closed <- ConnClosed{Client: c, Reason: reason}
	}()
}

// NewLocalClient wraps nc as a Writer and registers a fresh Client for it,
// called from the main loop only.
func (s *Server) NewLocalClient(nc net.Conn) *Client {
	ip := nc.RemoteAddr().String()
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	c := NewClient(newUUID(), ip, newConn(nc), s.Clock.Now())
	s.Clients.Add(c)
	return c
}

// newUUID generates a fresh client identity, grounded on ergo's use of
// github.com/google/uuid for session IDs.
func newUUID() string {
	return uuid.NewString()
}
