package main

import "github.com/derktes/gree-remote-decoder/server/server"

func main() {
	server.Start()
}
