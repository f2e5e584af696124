package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wtask/chatrelay/pkg/semver"
)

type (
	// Configuration - server configuration
	Configuration struct {
		// IPAddress - bind the address
		IPAddress string
		// Port - bind the port
		Port uint
		// WebSocketAddress - address to serve websocket clients, empty to disable
		WebSocketAddress string
		// MaxSessions - limit of concurrently served clients, 0 is unlimited
		MaxSessions int
		// ShutdownTimeout - how long to wait sessions on stop
		ShutdownTimeout time.Duration
	}
)

const (
	defaultPort = 4000
)

var (
	// Version - app version fingerprint
	Version = semver.V{Major: 1}.String()

	// Config - current configuration of the server
	Config = Configuration{
		IPAddress:       "",
		Port:            defaultPort,
		ShutdownTimeout: 10 * time.Second,
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))
)

func init() {
	out := flag.CommandLine.Output()
	printUsage := func() {
		fmt.Fprintf(out, "Launch line chat relay over TCP\n\n\t%s [options]\nOptions:\n\n", BinaryName)
		flag.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	printError := func(msg string) {
		fmt.Fprintf(out, "%s (v%s) error:\n\n\t%s\n", BinaryName, Version, msg)
	}

	help := false
	flag.BoolVar(&help, "help", false, "Print usage help")
	flag.StringVar(&Config.IPAddress, "ip", "", "Listen address")
	flag.UintVar(&Config.Port, "port", defaultPort, "Listen port")
	flag.StringVar(&Config.WebSocketAddress, "ws", "", "Listen address for websocket clients, e.g. :4080 (disabled if empty)")
	flag.IntVar(&Config.MaxSessions, "max-sessions", 0, "Max number of concurrently connected clients, 0 is unlimited.")
	shutdownTimeout := 10
	flag.IntVar(&shutdownTimeout, "shutdown-timeout", shutdownTimeout, "Seconds to wait for clients on stop.")

	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}

	if Config.Port == 0 || Config.Port > 65535 {
		printError("port value should be in range 1..65535")
		os.Exit(1)
	}
	if Config.MaxSessions < 0 {
		printError("max-sessions value should be greater or equal 0")
		os.Exit(1)
	}
	if shutdownTimeout < 1 {
		printError("shutdown-timeout value should be greater 1")
		os.Exit(1)
	}
	Config.ShutdownTimeout = time.Duration(shutdownTimeout) * time.Second

	fmt.Fprint(out, "TCP chat relay is launching, press Ctrl-C to stop...\n")
}
