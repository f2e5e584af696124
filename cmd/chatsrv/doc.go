// Command chatsrv runs the line chat relay server.
//
// Every client connects over TCP, sends its login as the first line
// and then chat messages, one per line. Each message is relayed
// to all other connected clients as "<login> diz: <message>".
// The line "sair" (in any case) disconnects the client.
//
// Launch server with default options (port 4000):
//
//	go run .
//
// Serve browser clients over websocket too:
//
//	go run . -ws :4080
package main
