// Command chatcli is an interactive client of the line chat relay.
//
// It asks for a login, then sends every typed line to the server
// and prints lines received from other clients. Type "sair" to quit.
//
//	go run . -addr 127.0.0.1:4000
package main
