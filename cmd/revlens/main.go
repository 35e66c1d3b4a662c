package main

import "github.com/revlens/revlens/internal/cli"

func main() {
	cli.Execute()
}
