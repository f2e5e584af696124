package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/wtask/chatrelay/internal/chat/line"
)

const (
	loginPrompt   = "Digite seu login: "
	messagePrompt = "Digite uma msg (ou '" + ExitKeyword + "' para encerrar): "
)

// Client - interactive chat participant.
// Sending happens in Run, receiving happens in a separate goroutine started by Run.
type Client struct {
	conn    *line.Conn
	done    chan struct{}
	started atomic.Bool
}

// DialClient - connects to chat server.
func DialClient(ctx context.Context, address string, logger *slog.Logger) (*Client, error) {
	t, err := line.Dial(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("chat.DialClient: %w", err)
	}
	return NewClient(line.New(t, logger)), nil
}

// NewClient - builds client over established connection.
func NewClient(conn *line.Conn) *Client {
	return &Client{
		conn: conn,
		done: make(chan struct{}),
	}
}

// Run - reads login and messages from console and sends them to the server
// while received lines are printed to out. Returns after the exit keyword is sent,
// console end is treated as the exit keyword. Run does not wait for receiving to stop.
// Run is one-shot, the next calls return ErrAlreadyRun.
func (c *Client) Run(console io.Reader, out io.Writer) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}
	w := &syncWriter{w: out}
	in := bufio.NewReader(console)
	go c.receive(w)

	fmt.Fprint(w, loginPrompt)
	login := readConsoleLine(in)
	c.conn.SetLogin(login)
	if !c.conn.Send(login) {
		return ErrDisconnected
	}
	if IsExit(login) {
		return nil
	}

	for {
		fmt.Fprint(w, messagePrompt)
		msg := readConsoleLine(in)
		if !c.conn.Send(msg) {
			return ErrDisconnected
		}
		if IsExit(msg) {
			return nil
		}
	}
}

// Done - closed when the server stops sending lines.
// Never closed if Run was not called.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close - releases connection to the server.
func (c *Client) Close() {
	c.conn.Close()
}

func (c *Client) receive(out io.Writer) {
	defer close(c.done)
	for {
		msg, ok := c.conn.Receive()
		if !ok {
			return
		}
		fmt.Fprintln(out, msg)
	}
}

// readConsoleLine - returns next console line or exit keyword at console end.
func readConsoleLine(r *bufio.Reader) string {
	s, err := r.ReadString('\n')
	if err != nil && (s == "" || !errors.Is(err, io.EOF)) {
		return ExitKeyword
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
