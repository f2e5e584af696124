package line

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
)

// Transport - duplex line-oriented stream. ReadLine and WriteLine are called
// from different goroutines, but never concurrently with themselves.
type Transport interface {
	// ReadLine - blocks until a full line is read, terminator is not included.
	ReadLine() (string, error)
	// WriteLine - writes the line with terminator and flushes it.
	WriteLine(line string) error
	// Close - releases reader, writer and the stream.
	Close() error
	RemoteAddr() net.Addr
}

type tcpTransport struct {
	conn   net.Conn
	reader *bufio.Reader

	wmu    sync.Mutex
	writer *bufio.Writer
}

// NewTCP - builds line transport over stream connection.
func NewTCP(conn net.Conn) Transport {
	return &tcpTransport{
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
	}
}

// Dial - connects to line server at address.
func Dial(ctx context.Context, address string) (Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return NewTCP(conn), nil
}

func (t *tcpTransport) ReadLine() (string, error) {
	s, err := t.reader.ReadString('\n')
	if err != nil {
		// unterminated tail before EOF is still a line
		if errors.Is(err, io.EOF) && s != "" {
			return trimEOL(s), nil
		}
		return "", err
	}
	return trimEOL(s), nil
}

func (t *tcpTransport) WriteLine(line string) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	if _, err := t.writer.WriteString(line); err != nil {
		return err
	}
	if err := t.writer.WriteByte('\n'); err != nil {
		return err
	}
	return t.writer.Flush()
}

func (t *tcpTransport) Close() error {
	// bufio reader holds nothing to release.
	// A busy writer is left as is: closing conn below aborts its pending write.
	var flushErr error
	if t.wmu.TryLock() {
		flushErr = t.writer.Flush()
		t.wmu.Unlock()
	}
	closeErr := t.conn.Close()
	if errors.Is(flushErr, net.ErrClosed) {
		flushErr = nil
	}
	return errors.Join(flushErr, closeErr)
}

func (t *tcpTransport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
