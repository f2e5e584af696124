package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/wtask/chatrelay/internal/chat"
)

func main() {
	// client logs only failures, stdout belongs to the chat
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, cancel := context.WithTimeout(context.Background(), Config.DialTimeout)
	client, err := chat.DialClient(ctx, Config.Address, logger)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erro ao conectar ao servidor:", err)
		os.Exit(1)
	}
	defer client.Close()
	fmt.Println("Cliente conectado ao servidor no endereço", Config.Address)

	if err := client.Run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		client.Close()
		os.Exit(1)
	}
}
