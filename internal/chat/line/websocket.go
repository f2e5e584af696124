package line

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// closeGrace - how long Close waits to deliver the close frame.
const closeGrace = time.Second

type wsTransport struct {
	conn *websocket.Conn

	wmu sync.Mutex
}

// NewWebSocket - builds line transport over websocket connection,
// every text message carries exactly one line.
func NewWebSocket(conn *websocket.Conn) Transport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) ReadLine() (string, error) {
	for {
		kind, p, err := t.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if kind != websocket.TextMessage {
			continue
		}
		return trimEOL(string(p)), nil
	}
}

func (t *wsTransport) WriteLine(line string) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (t *wsTransport) Close() error {
	// WriteControl is allowed concurrently with WriteMessage
	frameErr := t.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeGrace),
	)
	if errors.Is(frameErr, websocket.ErrCloseSent) || errors.Is(frameErr, net.ErrClosed) {
		frameErr = nil
	}
	return errors.Join(frameErr, t.conn.Close())
}

func (t *wsTransport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}
