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
	// Configuration - client configuration
	Configuration struct {
		// Address - chat server host:port
		Address string
		// DialTimeout - how long to wait for connection
		DialTimeout time.Duration
	}
)

const (
	defaultAddress = "127.0.0.1:4000"
)

var (
	// Version - app version fingerprint
	Version = semver.V{Major: 1}.String()

	// Config - current configuration of the client
	Config = Configuration{
		Address:     defaultAddress,
		DialTimeout: 5 * time.Second,
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))
)

func init() {
	out := flag.CommandLine.Output()
	printUsage := func() {
		fmt.Fprintf(out, "Interactive client of line chat relay\n\n\t%s [options]\nOptions:\n\n", BinaryName)
		flag.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	printError := func(msg string) {
		fmt.Fprintf(out, "%s (v%s) error:\n\n\t%s\n", BinaryName, Version, msg)
	}

	help := false
	flag.BoolVar(&help, "help", false, "Print usage help")
	flag.StringVar(&Config.Address, "addr", defaultAddress, "Chat server address")
	dialTimeout := 5
	flag.IntVar(&dialTimeout, "dial-timeout", dialTimeout, "Seconds to wait for connection to the server.")

	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}

	if dialTimeout < 1 {
		printError("dial-timeout value should be greater 1")
		os.Exit(1)
	}
	Config.DialTimeout = time.Duration(dialTimeout) * time.Second
}
