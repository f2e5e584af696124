package line

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipe() (client, server *Conn) {
	c, s := net.Pipe()
	return New(NewTCP(c), nil), New(NewTCP(s), nil)
}

func TestConn_SendReceive(test *testing.T) {
	client, server := pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		client.Send("hello")
		client.Send("")
		client.Send("olá, mundo")
	}()

	for _, expected := range []string{"hello", "", "olá, mundo"} {
		actual, ok := server.Receive()
		require.True(test, ok)
		assert.Equal(test, expected, actual)
	}
}

func TestConn_ReceiveTrimsCRLF(test *testing.T) {
	c, s := net.Pipe()
	server := New(NewTCP(s), nil)
	defer server.Close()

	go func() {
		io.WriteString(c, "windows line\r\nunix line\ntail")
		c.Close()
	}()

	for _, expected := range []string{"windows line", "unix line", "tail"} {
		actual, ok := server.Receive()
		require.True(test, ok)
		assert.Equal(test, expected, actual)
	}
	_, ok := server.Receive()
	assert.False(test, ok, "closed peer must end receiving")
}

func TestConn_SendToClosedPeer(test *testing.T) {
	client, server := pipe()
	defer server.Close()
	client.Close()

	assert.False(test, server.Send("anybody?"))
	assert.False(test, server.IsOpen())
	assert.False(test, server.Send("again"), "connection stays broken")
}

func TestConn_ReceiveAfterInterrupt(test *testing.T) {
	client, server := pipe()
	defer client.Close()

	done := make(chan bool)
	go func() {
		_, ok := server.Receive()
		done <- ok
	}()
	time.Sleep(10 * time.Millisecond)
	server.Interrupt()

	select {
	case ok := <-done:
		assert.False(test, ok)
	case <-time.After(time.Second):
		test.Fatal("Receive was not unblocked by Interrupt")
	}
	assert.False(test, server.IsOpen())
	server.Close()
}

func TestConn_Login(test *testing.T) {
	client, server := pipe()
	defer client.Close()
	defer server.Close()

	_, ok := server.Login()
	assert.False(test, ok, "login is unset just after connect")

	server.SetLogin("")
	login, ok := server.Login()
	assert.True(test, ok, "empty login is still a login")
	assert.Equal(test, "", login)

	server.SetLogin("alice")
	login, _ = server.Login()
	assert.Equal(test, "alice", login)
}

func TestConn_ID(test *testing.T) {
	a, b := pipe()
	defer a.Close()
	defer b.Close()

	assert.NotEmpty(test, a.ID())
	assert.NotEqual(test, a.ID(), b.ID())
	assert.Equal(test, "pipe", a.RemoteAddr())
}

func TestWebSocketTransport(test *testing.T) {
	received := make(chan string, 4)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := New(NewWebSocket(ws), nil)
		defer conn.Close()
		conn.Send("welcome")
		for {
			s, ok := conn.Receive()
			if !ok {
				close(received)
				return
			}
			received <- s
		}
	}))
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(test, err)
	client := New(NewWebSocket(ws), nil)

	greeting, ok := client.Receive()
	require.True(test, ok)
	assert.Equal(test, "welcome", greeting)

	require.NoError(test, ws.WriteMessage(websocket.BinaryMessage, []byte("skipped")))
	assert.True(test, client.Send("from browser\n"))
	client.Close()

	var lines []string
	for s := range received {
		lines = append(lines, s)
	}
	assert.Equal(test, []string{"from browser"}, lines)
}

type brokenTransport struct {
	readErr error
}

func (t *brokenTransport) ReadLine() (string, error) { return "", t.readErr }
func (t *brokenTransport) WriteLine(string) error    { return syscall.EPIPE }
func (t *brokenTransport) Close() error              { return nil }
func (t *brokenTransport) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 5000}
}

func TestConn_ReceiveLogsReadError(test *testing.T) {
	cases := []struct {
		err    error
		logged bool
	}{
		{&net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}, true},
		{errors.New("unexpected frame"), true},
		{io.EOF, false},
		{&net.OpError{Op: "read", Net: "tcp", Err: net.ErrClosed}, false},
		{io.ErrClosedPipe, false},
		{&websocket.CloseError{Code: websocket.CloseGoingAway}, false},
	}
	for _, c := range cases {
		logs := &bytes.Buffer{}
		conn := New(&brokenTransport{readErr: c.err}, slog.New(slog.NewTextHandler(logs, nil)))

		_, ok := conn.Receive()
		assert.False(test, ok)
		if c.logged {
			assert.Contains(test, logs.String(), "receive failed", "%v", c.err)
			assert.Contains(test, logs.String(), "err=", "%v", c.err)
			assert.Contains(test, logs.String(), "remote=127.0.0.1:5000")
		} else {
			assert.Empty(test, logs.String(), "%v", c.err)
		}
	}
}

func TestConn_SendLogsWriteError(test *testing.T) {
	logs := &bytes.Buffer{}
	conn := New(&brokenTransport{}, slog.New(slog.NewTextHandler(logs, nil)))

	assert.False(test, conn.Send("lost"))
	assert.Contains(test, logs.String(), "send failed")
	assert.Contains(test, logs.String(), "broken pipe")
}
