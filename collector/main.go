package main

import "github.com/derktes/gree-remote-decoder/collector/collector"

func main() {
	collector.Start()
}
