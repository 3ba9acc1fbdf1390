package main

import "bbo2lin/internal/cli"

func main() {
	cli.Execute()
}
