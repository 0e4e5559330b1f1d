package main

import "github.com/Shamlan321/OdooSense/internal/cli"

func main() {
	cli.Run()
}
