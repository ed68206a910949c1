package main

import "producer/internal/cli"

func main() {
	cli.Execute()
}
