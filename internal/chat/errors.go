package chat

import "errors"

var (
	// ErrServerClosed - returned by Serve after Shutdown.
	ErrServerClosed = errors.New("chat.Server: server closed")

	// ErrDisconnected - returned by Client.Run when a line can not be sent to the server.
	ErrDisconnected = errors.New("chat.Client: disconnected from server")

	// ErrAlreadyRun - returned by Client.Run if it was called before.
	ErrAlreadyRun = errors.New("chat.Client: already run")
)
