// Package line wraps duplex streams into line based connections
// which are used both by the chat server and by the chat client.
package line

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn - line connection with an identity and an optional login.
type Conn struct {
	id        string
	transport Transport
	logger    *slog.Logger

	open      atomic.Bool
	closeOnce sync.Once
	closeErr  error

	mu       sync.RWMutex
	login    string
	hasLogin bool
}

// New - wraps transport into connection. Connection owns the transport since now.
func New(t Transport, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Conn{
		id:        uuid.NewString(),
		transport: t,
	}
	c.logger = logger.With("conn", c.id, "remote", c.RemoteAddr())
	c.open.Store(true)
	return c
}

// ID - opaque identifier, unique for every connection.
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr - remote address of the stream, used for logging.
func (c *Conn) RemoteAddr() string {
	a := c.transport.RemoteAddr()
	if a == nil {
		return ""
	}
	return a.String()
}

// IsOpen - false after a failed Send, Interrupt or Close.
func (c *Conn) IsOpen() bool {
	return c.open.Load()
}

// Send - writes single line. Returns false if transport error was observed.
func (c *Conn) Send(line string) bool {
	if !c.open.Load() {
		return false
	}
	if err := c.transport.WriteLine(line); err != nil {
		c.open.Store(false)
		c.logger.Info("send failed", "err", err)
		return false
	}
	return true
}

// Receive - blocks until the next line is arrived.
// Returns false when the peer is gone or any read error occurred.
// Errors other than a regular end of stream are logged.
func (c *Conn) Receive() (string, bool) {
	s, err := c.transport.ReadLine()
	if err != nil {
		if !isEndOfStream(err) {
			c.logger.Info("receive failed", "err", err)
		}
		return "", false
	}
	return s, true
}

// SetLogin - assigns login, no validation is performed.
func (c *Conn) SetLogin(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.login, c.hasLogin = name, true
}

// Login - returns login and whether it was set.
func (c *Conn) Login() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.login, c.hasLogin
}

// Interrupt - closes the underlying stream to unblock pending Receive.
// The owner of connection still has to call Close.
func (c *Conn) Interrupt() {
	c.release()
}

// Close - releases the connection, errors are logged.
// It is the obligation of the connection owner to call Close once.
func (c *Conn) Close() {
	if err := c.release(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.logger.Error("close failed", "err", err)
	}
}

func (c *Conn) release() error {
	c.closeOnce.Do(func() {
		c.open.Store(false)
		c.closeErr = c.transport.Close()
	})
	return c.closeErr
}

// isEndOfStream - the peer has finished the stream or it was closed locally.
func isEndOfStream(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
