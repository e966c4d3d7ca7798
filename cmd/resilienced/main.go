package main

import "github.com/jamlando/joanie-resilience/internal/cli"

func main() {
	cli.Execute()
}
