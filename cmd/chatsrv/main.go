package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/wtask/chatrelay/internal/chat"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With("app", BinaryName, "version", Version)
	logger.Info("started", "config", fmt.Sprintf("%+v", Config))

	node := net.JoinHostPort(Config.IPAddress, fmt.Sprintf("%d", Config.Port))
	listener, err := net.Listen("tcp", node)
	if err != nil {
		logger.Error("unable to listen TCP", "addr", node, "err", err)
		os.Exit(1)
	}

	server, err := chat.NewServer(
		chat.WithLogger(logger),
		chat.WithMaxSessions(Config.MaxSessions),
	)
	if err != nil {
		logger.Error("can't start chat server", "err", err)
		listener.Close()
		os.Exit(1)
	}

	failed := make(chan error, 2)
	go func() {
		if err := server.Serve(listener); !errors.Is(err, chat.ErrServerClosed) {
			failed <- err
		}
	}()

	var web *http.Server
	if Config.WebSocketAddress != "" {
		web = &http.Server{Addr: Config.WebSocketAddress, Handler: server.WebSocketHandler()}
		go func() {
			logger.Info("websocket clients are served", "addr", Config.WebSocketAddress)
			if err := web.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				failed <- err
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	code := 0
	select {
	case s := <-sig:
		logger.Info("got stop signal", "signal", s.String())
	case err := <-failed:
		logger.Error("chat server failed", "err", err)
		code = 1
	}

	if web != nil {
		web.Close()
	}
	logger.Info("chat server stopped", "duration", server.Shutdown(Config.ShutdownTimeout).String())
	os.Exit(code)
}
